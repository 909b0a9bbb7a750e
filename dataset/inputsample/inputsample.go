/*
Package inputsample provides a way to read a dataset.Row to
classify from an io.Reader, requesting each feature value before
parsing it.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
FieldValueRequester represents a way to ask for field values and
reject the given values.
*/
type FieldValueRequester interface {
	RequestValueFor(feature.Field) error
	RejectValueFor(feature.Field, string) error
}

/*
Read takes an io.Reader, a schema, a FieldValueRequester and an
undefinedValue coding string and returns a row with one value per
feature field of the schema, read from the io.Reader, or an error.

Each value is requested with the given FieldValueRequester and
then parsed from the next line of the reader. A line equal to the
undefinedValue string is interpreted as a Missing value. Lines
that cannot be parsed as a valid value for the field are rejected
with the FieldValueRequester and the field is retried with the
following lines.

The label cell of the returned row is left Missing: the row is
meant to be classified, not learned from.
*/
func Read(r io.Reader, schema *feature.Schema, fvr FieldValueRequester, undefinedValue string) (dataset.Row, error) {
	scanner := bufio.NewScanner(r)
	row := make(dataset.Row, schema.Len())
	row[schema.LabelColumn()] = feature.Missing{}
	for column := 0; column < schema.LabelColumn(); column++ {
		f := schema.Field(column)
		err := fvr.RequestValueFor(f)
		if err != nil {
			return nil, err
		}
		v, err := readValue(scanner, f, fvr, undefinedValue)
		if err != nil {
			return nil, err
		}
		row[column] = v
	}
	return row, nil
}

func readValue(scanner *bufio.Scanner, f feature.Field, fvr FieldValueRequester, undefinedValue string) (feature.Value, error) {
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading value for field %s: %v", f.Name(), err)
			}
			return nil, fmt.Errorf("reading value for field %s: %v", f.Name(), io.EOF)
		}
		line := scanner.Text()
		if line == undefinedValue {
			return feature.Missing{}, nil
		}
		v, err := f.Parse(line)
		if err == nil {
			return v, nil
		}
		err = fvr.RejectValueFor(f, line)
		if err != nil {
			return nil, err
		}
	}
}
