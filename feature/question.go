package feature

import (
	"fmt"
)

/*
Question represents a binary partitioning condition on a single
column of a row: a threshold test for numeric columns, an equality
test for text columns.

Its Match method takes a row of values and returns a boolean
indicating if the row's cell for the question's column satisfies
the condition.

A question is immutable once built; the branch node that selected
it keeps it for the lifetime of the tree.
*/
type Question struct {
	header string
	column int
	value  Value
}

/*
NewQuestion takes the display name of a column, its index and the
Value to compare row cells against and returns a question with
them.
*/
func NewQuestion(header string, column int, value Value) *Question {
	return &Question{header, column, value}
}

/*
Header returns the display name of the column the question asks
about.
*/
func (q *Question) Header() string {
	return q.header
}

/*
Column returns the index of the column the question asks about.
*/
func (q *Question) Column() int {
	return q.column
}

/*
Value returns the value the question compares row cells against.
*/
func (q *Question) Value() Value {
	return q.value
}

/*
Match receives a row of values and returns a boolean indicating if
the row satisfies the question, and an error.

A Missing cell never satisfies a question, whatever the question
holds. A Numeric cell satisfies a question holding a Numeric
threshold when it is greater than or equal to it. A Text cell
satisfies a question holding a Text value when both strings are
equal. Any other pairing means the dataset broke the one variant
per column precondition and is reported as an error.
*/
func (q *Question) Match(row []Value) (bool, error) {
	if q.column >= len(row) {
		return false, fmt.Errorf("matching question on %s: row has %d columns, question asks about column %d", q.header, len(row), q.column)
	}
	cell := row[q.column]
	if _, ok := cell.(Missing); ok {
		return false, nil
	}
	switch value := q.value.(type) {
	case Numeric:
		n, ok := cell.(Numeric)
		if !ok {
			return false, fmt.Errorf("matching question on %s: expected numeric cell, got %T", q.header, cell)
		}
		return n >= value, nil
	case Text:
		t, ok := cell.(Text)
		if !ok {
			return false, fmt.Errorf("matching question on %s: expected text cell, got %T", q.header, cell)
		}
		return t == value, nil
	}
	return false, fmt.Errorf("matching question on %s: question holds no comparable value", q.header)
}

func (q *Question) String() string {
	var op string
	switch q.value.(type) {
	case Numeric:
		op = ">="
	case Text:
		op = "=="
	default:
		op = "?"
	}
	return fmt.Sprintf("Is %s %s %v", q.header, op, q.value)
}
