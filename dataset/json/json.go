/*
Package json provides encoding of dataset.Row values to JSON and
back, for backends that store rows as opaque byte slices.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
RowEncodeDecoder is an interface for objects that allow encoding
rows into slices of bytes and decoding them back to rows.
*/
type RowEncodeDecoder interface {

	//Encode receives a dataset.Row and returns a slice of bytes
	//with the row encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(dataset.Row) ([]byte, error)

	//Decode receives a slice of bytes and returns a dataset.Row
	//decoded from it or an error if the decoding could not be
	//performed for some reason.
	Decode([]byte) (dataset.Row, error)
}

type rowEncodeDecoder struct {
	schema *feature.Schema
}

/*
New takes a schema and returns a RowEncodeDecoder that encodes
rows as JSON arrays with one element per schema field: numbers
for Numeric cells, strings for Text cells and null for Missing
ones.
*/
func New(schema *feature.Schema) RowEncodeDecoder {
	return &rowEncodeDecoder{schema}
}

func (red *rowEncodeDecoder) Encode(r dataset.Row) ([]byte, error) {
	if err := r.Validate(red.schema); err != nil {
		return nil, fmt.Errorf("encoding row: %v", err)
	}
	cells := make([]interface{}, len(r))
	for i, v := range r {
		switch v := v.(type) {
		case feature.Numeric:
			cells[i] = float64(v)
		case feature.Text:
			cells[i] = string(v)
		case feature.Missing:
			cells[i] = nil
		}
	}
	data, err := json.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %v", err)
	}
	return data, nil
}

func (red *rowEncodeDecoder) Decode(data []byte) (dataset.Row, error) {
	var cells []interface{}
	err := json.Unmarshal(data, &cells)
	if err != nil {
		return nil, fmt.Errorf("decoding row: %v", err)
	}
	if len(cells) != red.schema.Len() {
		return nil, fmt.Errorf("decoding row: got %d cells, schema declares %d fields", len(cells), red.schema.Len())
	}
	row := make(dataset.Row, len(cells))
	for i, cell := range cells {
		f := red.schema.Field(i)
		switch cell := cell.(type) {
		case nil:
			row[i] = feature.Missing{}
		case float64:
			if _, ok := f.(*feature.NumericField); !ok {
				return nil, fmt.Errorf("decoding row: text field %s holds a number", f.Name())
			}
			row[i] = feature.Numeric(cell)
		case string:
			if _, ok := f.(*feature.TextField); !ok {
				return nil, fmt.Errorf("decoding row: numeric field %s holds a string", f.Name())
			}
			row[i] = feature.Text(cell)
		default:
			return nil, fmt.Errorf("decoding row: field %s holds an unsupported %T value", f.Name(), cell)
		}
	}
	return row, nil
}
