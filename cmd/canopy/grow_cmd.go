package main

import (
	"context"
	"fmt"
	"os"

	"github.com/canopyml/canopy"
	"github.com/canopyml/canopy/dataset"
	csvds "github.com/canopyml/canopy/dataset/csv"
	"github.com/canopyml/canopy/feature/yaml"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput          string
	metadataInput      string
	output             string
	cpuIntensiveSet    bool
	memoryIntensiveSet bool
	maxDBConns         int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a classification tree from a dataset to predict its label field.`,
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
			trainingSet, err := openInputDataset(ctx, config.dataInput, schema, config.datasetGenerator(), config.maxDBConns, config.logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			count, err := trainingSet.Count(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting training set rows: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Growing tree from a dataset with %d rows and %d features to predict %s ...", count, schema.Len()-1, schema.Label().Name())
			model := canopy.NewModel(schema)
			err = model.Train(ctx, trainingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Done")
			t, err := model.Tree()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			err = outputTree(config.output, t.String())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the fields available on the input data (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the grown tree will be written (defaults to STDOUT)")
	cmd.PersistentFlags().BoolVar(&(config.memoryIntensiveSet), "memory-intensive", false, "force the use of memory-intensive partitioning to decrease time at the cost of increasing memory use")
	cmd.PersistentFlags().BoolVar(&(config.cpuIntensiveSet), "cpu-intensive", false, "force the use of cpu-intensive partitioning to decrease memory use at the cost of increasing time")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.cpuIntensiveSet && gcc.memoryIntensiveSet {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	return nil
}

func (gcc *growCmdConfig) datasetGenerator() csvds.DatasetGenerator {
	if gcc.memoryIntensiveSet {
		return dataset.NewMemoryIntensive
	}
	if gcc.cpuIntensiveSet {
		return dataset.NewCPUIntensive
	}
	return dataset.New
}

func outputTree(outputPath string, rendered string) error {
	var f *os.File
	var err error
	if outputPath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	_, err = fmt.Fprint(f, rendered)
	return err
}
