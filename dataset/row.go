package dataset

import (
	"fmt"
	"strings"

	"github.com/canopyml/canopy/feature"
)

/*
Row represents a sample: an ordered sequence of values, one per
schema field, with the class label as last element. Rows are
never mutated after construction; partitions share them read-only.
*/
type Row []feature.Value

/*
Label returns the class label of the row, that is, its last value,
or an error if the row is empty or the last value is not a Text.
*/
func (r Row) Label() (feature.Text, error) {
	if len(r) == 0 {
		return "", fmt.Errorf("row has no label: row is empty")
	}
	label, ok := r[len(r)-1].(feature.Text)
	if !ok {
		return "", fmt.Errorf("row label must be a text value, got %T", r[len(r)-1])
	}
	return label, nil
}

/*
Validate checks the row against the given schema: it must have
exactly one value per schema field and every value must be valid
for its field. It returns a descriptive error on the first
violation found, nil otherwise.
*/
func (r Row) Validate(schema *feature.Schema) error {
	if len(r) != schema.Len() {
		return fmt.Errorf("row has %d values, schema %v declares %d fields", len(r), schema.Names(), schema.Len())
	}
	for i, v := range r {
		if v == nil {
			return fmt.Errorf("row has nil value for field %s, use feature.Missing for absent observations", schema.Field(i).Name())
		}
		if ok, err := schema.Field(i).Valid(v); !ok {
			return err
		}
	}
	if _, err := r.Label(); err != nil {
		return err
	}
	return nil
}

func (r Row) String() string {
	cells := make([]string, len(r))
	for i, v := range r {
		cells[i] = v.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(cells, " "))
}
