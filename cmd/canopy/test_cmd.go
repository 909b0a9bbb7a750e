package main

import (
	"context"
	"fmt"
	"os"

	"github.com/canopyml/canopy"
	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature/yaml"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	trainingInput string
	dataInput     string
	metadataInput string
	maxDBConns    int
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Grow a tree from a training dataset and test its performance against a test dataset`,
		Run: func(cmd *cobra.Command, args []string) {
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
			trainingSet, err := openInputDataset(config.Context(), config.trainingInput, schema, dataset.New, config.maxDBConns, config.logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			testingSet, err := openInputDataset(config.Context(), config.dataInput, schema, dataset.New, config.maxDBConns, config.logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Growing tree to predict %s ...", schema.Label().Name())
			model := canopy.NewModel(schema)
			err = model.Train(config.Context(), trainingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(5)
			}
			count, err := testingSet.Count(config.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting testing set rows: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Testing tree against testing set with %d rows...", count)
			successRate, err := model.Test(config.Context(), testingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(7)
			}
			config.Logf("Done")
			fmt.Printf("%f success rate\n", successRate)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.trainingInput), "training-input", "T", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis URL with data to use to grow the tree (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the fields available on the input data (required)")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.trainingInput == "" {
		return fmt.Errorf("required training-input flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (tcc *testCmdConfig) Context() context.Context {
	tcc.setContextAndCancelFunc()
	return tcc.ctx
}

func (tcc *testCmdConfig) ContextCancelFunc() context.CancelFunc {
	tcc.setContextAndCancelFunc()
	return tcc.cancelFunc
}

func (tcc *testCmdConfig) setContextAndCancelFunc() {
	if tcc.ctx == nil {
		tcc.ctx, tcc.cancelFunc = context.WithCancel(context.Background())
	}
}
