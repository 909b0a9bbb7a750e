/*
Package csv provides methods to read dataset.Dataset rows from and
write them to CSV streams.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
Writer is an interface for a destination to which rows can be
written.
*/
type Writer interface {
	// Write will attempt to write the given rows and will
	// return the actually written number of rows and an error
	// (if not all rows could be written)
	Write(context.Context, []dataset.Row) (int, error)
	// Count returns the total number of rows written to the
	// writer
	Count() int
	// Flush ensures any pending write operations finish before
	// returning. It returns an error if that cannot be ensured.
	Flush() error
}

/*
DatasetGenerator is a function that takes a schema and a slice of
rows and generates a dataset with them.
*/
type DatasetGenerator func(*feature.Schema, []dataset.Row) dataset.Dataset

type csvWriter struct {
	count  int
	schema *feature.Schema
	w      *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream, a schema and a
DatasetGenerator and returns a dataset built with the generator
and the rows parsed from the reader, or an error.

The header or first row of the CSV content is expected to consist
of the names of the schema's fields in column order. The rest of
the rows should consist of valid values for all fields and/or the
'?' string to indicate a missing value.
*/
func ReadDataset(reader io.Reader, schema *feature.Schema, dg DatasetGenerator) (dataset.Dataset, error) {
	rows := []dataset.Row{}
	err := ReadDatasetByRow(reader, schema, func(_ int, r dataset.Row) (bool, error) {
		rows = append(rows, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dg(schema, rows), nil
}

/*
ReadDatasetByRow takes an io.Reader for a CSV stream, a schema and
a lambda function on an integer and a dataset.Row that returns a
boolean value. It parses the rows from the reader and for each it
calls the lambda function with the row and its index as
parameters. If the lambda function returns true, it will continue
processing the next row, otherwise it will stop. An error is
returned if something goes wrong when reading the stream or
parsing a row.
*/
func ReadDatasetByRow(reader io.Reader, schema *feature.Schema, lambda func(int, dataset.Row) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	err = validateCSVHeader(header, schema)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		row, err := parseRowFromCSVRecord(record, schema)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a schema and a
DatasetGenerator, opens the file the filepath points to (os.Stdin
if the filepath is "") and uses ReadDataset to return a dataset
read from it or an error. It will return an error if the given
filepath cannot be opened for reading.
*/
func ReadDatasetFromFilePath(filepath string, schema *feature.Schema, dg DatasetGenerator) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f, schema, dg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer
that will write rows on the io.Writer in CSV format, after writing
a header with the schema's field names.
*/
func NewWriter(writer io.Writer, schema *feature.Schema) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(schema.Names())
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{schema: schema, w: w}, nil
}

/*
WriteDataset takes a context, an io.Writer and a dataset and dumps
the dataset's rows to the writer in CSV format. It returns an
error if something went wrong when writing to the writer or
codifying the rows.
*/
func WriteDataset(ctx context.Context, writer io.Writer, ds dataset.Dataset) error {
	cw, err := NewWriter(writer, ds.Schema())
	if err != nil {
		return err
	}
	rows, err := ds.Rows(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, rows)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func validateCSVHeader(header []string, schema *feature.Schema) error {
	if len(header) != schema.Len() {
		return fmt.Errorf("parsing header: got %d columns, schema declares %d fields", len(header), schema.Len())
	}
	for i, name := range header {
		if name != schema.Field(i).Name() {
			return fmt.Errorf("parsing header: column %d is %s, schema declares %s", i, name, schema.Field(i).Name())
		}
	}
	return nil
}

func parseRowFromCSVRecord(record []string, schema *feature.Schema) (dataset.Row, error) {
	if len(record) != schema.Len() {
		return nil, fmt.Errorf("got %d values, schema declares %d fields", len(record), schema.Len())
	}
	row := make(dataset.Row, len(record))
	for i, cell := range record {
		if cell == "?" {
			row[i] = feature.Missing{}
			continue
		}
		v, err := schema.Field(i).Parse(cell)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	if err := row.Validate(schema); err != nil {
		return nil, err
	}
	return row, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, rows []dataset.Row) (int, error) {
	for n := 0; n < len(rows); n++ {
		if err := cw.WriteRow(rows[n]); err != nil {
			return n, err
		}
	}
	return len(rows), nil
}

func (cw *csvWriter) WriteRow(row dataset.Row) error {
	record := make([]string, len(row))
	for j, v := range row {
		record[j] = v.String()
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
