package main

import (
	"context"
	"fmt"
	"os"

	"github.com/canopyml/canopy"
	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/dataset/inputsample"
	"github.com/canopyml/canopy/feature"
	"github.com/canopyml/canopy/feature/yaml"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	dataInput      string
	metadataInput  string
	undefinedValue string
	maxDBConns     int
}

type stdoutFieldValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the label for a sample answering questions",
		Long:  `Grow a tree from a training dataset and use it to predict the label for a sample, answering a reduced set of questions about its features`,
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
			trainingSet, err := openInputDataset(ctx, config.dataInput, schema, dataset.New, config.maxDBConns, config.logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Growing tree to predict %s ...", schema.Label().Name())
			model := canopy.NewModel(schema)
			err = model.Train(ctx, trainingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			row, err := inputsample.Read(os.Stdin, schema, stdoutFieldValueRequester(config.undefinedValue), config.undefinedValue)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			prediction, err := model.Classify(ctx, row)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			fmt.Printf("Predicted values along their probabilities are %v\n", prediction)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the fields available on the input data (required)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a field as undefined")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.dataInput == "" {
		return fmt.Errorf("required input flag was not set")
	}
	return nil
}

func (sfvr stdoutFieldValueRequester) RequestValueFor(f feature.Field) error {
	switch f := f.(type) {
	case *feature.TextField:
		fmt.Printf("Please provide the sample's %s:\n(valid values are strings or %s if undefined)\n", f.Name(), string(sfvr))
	case *feature.NumericField:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown field type %T", f)
	}
	return nil
}

func (sfvr stdoutFieldValueRequester) RejectValueFor(f feature.Field, value string) error {
	switch f := f.(type) {
	case *feature.TextField:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a string or %s if undefined.\n", value, f.Name(), string(sfvr))
	case *feature.NumericField:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown field type %T", f)
	}
	return nil
}
