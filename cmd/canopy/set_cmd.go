package main

import (
	"context"
	"fmt"
	"os"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature/yaml"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	dataOutput    string
	maxDBConns    int
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a dataset between backends",
		Long:  `Read a dataset from a CSV file, SQLite3 file, PostgreSQL, MongoDB or redis backend and dump it onto another`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			schema, err := yaml.ReadSchemaFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			input, err := openInputDataset(ctx, config.dataInput, schema, dataset.New, config.maxDBConns, config.logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			output, finish, err := openOutputWriter(ctx, config.dataOutput, schema, config.maxDBConns, config.logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			rows, err := input.Rows(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading input dataset rows: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Dumping %d rows onto the output dataset...", len(rows))
			n, err := output.Write(ctx, rows)
			if err != nil {
				fmt.Fprintf(os.Stderr, "after %d rows written: %v\n", n, err)
				os.Exit(6)
			}
			err = finish()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis URL with the dataset to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the fields available on the input data (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis URL to dump the dataset onto (defaults to STDOUT, as CSV)")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}
