package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "canopy is a tool to grow classification trees",
		Long:  `A tool to grow binary classification decision trees from your data, test them, and use them to classify new samples`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP((*bool)(&(config.logger)), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), growCmd(config), predictCmd(config), testCmd(config), splitCmd(config), setCmd(config))
	return rootCmd
}
