package feature

import (
	"fmt"
	"strconv"
)

/*
Field represents a column of a dataset: a named property whose
cells all share one Value variant.
*/
type Field interface {
	Name() string
	Valid(Value) (bool, error)
	Parse(string) (Value, error)
}

/*
NumericField represents a column whose cells hold Numeric values.
*/
type NumericField struct {
	name string
}

/*
TextField represents a column whose cells hold Text values.
Class labels are always text fields.
*/
type TextField struct {
	name string
}

/*
NewNumericField takes a name string and returns a numeric field
with the given name.
*/
func NewNumericField(name string) *NumericField {
	return &NumericField{name}
}

/*
NewTextField takes a name string and returns a text field with
the given name.
*/
func NewTextField(name string) *TextField {
	return &TextField{name}
}

/*
Name returns a string with the name of the field
*/
func (nf *NumericField) Name() string {
	return nf.name
}

/*
Valid receives a Value and returns a boolean and an error. When the
value is a Numeric or a Missing the method returns true and nil,
otherwise false and an error describing the variant mismatch.
*/
func (nf *NumericField) Valid(v Value) (bool, error) {
	switch v.(type) {
	case Numeric, Missing:
		return true, nil
	}
	return false, fmt.Errorf("numeric field %s expects a numeric value, got %T value", nf.name, v)
}

/*
Parse takes a string and returns the Numeric value it represents
or an error if it cannot be parsed as a float64.
*/
func (nf *NumericField) Parse(s string) (Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing value %q for numeric field %s: %v", s, nf.name, err)
	}
	return Numeric(f), nil
}

func (nf *NumericField) String() string {
	return nf.name
}

/*
Name returns a string with the name of the field
*/
func (tf *TextField) Name() string {
	return tf.name
}

/*
Valid receives a Value and returns a boolean and an error. When the
value is a Text or a Missing the method returns true and nil,
otherwise false and an error describing the variant mismatch.
*/
func (tf *TextField) Valid(v Value) (bool, error) {
	switch v.(type) {
	case Text, Missing:
		return true, nil
	}
	return false, fmt.Errorf("text field %s expects a text value, got %T value", tf.name, v)
}

/*
Parse takes a string and returns it wrapped as a Text value.
*/
func (tf *TextField) Parse(s string) (Value, error) {
	return Text(s), nil
}

func (tf *TextField) String() string {
	return tf.name
}

/*
Schema is an ordered, immutable list of the fields of a dataset.
The last field is always the class label and must be a text field.
*/
type Schema struct {
	fields []Field
}

/*
NewSchema takes a slice of fields and returns a schema with them or
an error if there are fewer than two fields or the last one, the
label, is not a text field.
*/
func NewSchema(fields []Field) (*Schema, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("schema needs at least one feature field and a label field, got %d fields", len(fields))
	}
	if _, ok := fields[len(fields)-1].(*TextField); !ok {
		return nil, fmt.Errorf("label field %s must be a text field, got %T", fields[len(fields)-1].Name(), fields[len(fields)-1])
	}
	return &Schema{fields}, nil
}

/*
Fields returns the fields of the schema in column order, the label
field last.
*/
func (s *Schema) Fields() []Field {
	return s.fields
}

/*
Len returns the number of fields in the schema, the label included.
*/
func (s *Schema) Len() int {
	return len(s.fields)
}

/*
Field returns the field at the given column.
*/
func (s *Schema) Field(column int) Field {
	return s.fields[column]
}

/*
Label returns the label field of the schema, that is, its last
field.
*/
func (s *Schema) Label() Field {
	return s.fields[len(s.fields)-1]
}

/*
LabelColumn returns the column of the label field.
*/
func (s *Schema) LabelColumn() int {
	return len(s.fields) - 1
}

/*
Names returns the field names in column order.
*/
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name()
	}
	return names
}
