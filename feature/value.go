package feature

import (
	"fmt"
	"strconv"
)

/*
Value represents a single cell of a sample: a number, a piece of
text or a missing observation. The set of implementations is closed,
split search and question matching switch exhaustively over the
three variants.

All rows of a dataset must agree on the variant used for each
column. Comparisons between mismatched variants are a programming
error and are reported as such by Question.Match.
*/
type Value interface {
	fmt.Stringer
	valueVariant()
}

/*
Numeric is a Value holding a float64 number.
*/
type Numeric float64

/*
Text is a Value holding a string, used both for categorical
feature cells and for class labels.
*/
type Text string

/*
Missing is a Value marking an absent observation. It never
matches any question, not even one holding another Missing.
*/
type Missing struct{}

func (Numeric) valueVariant() {}
func (Text) valueVariant()    {}
func (Missing) valueVariant() {}

func (n Numeric) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (t Text) String() string {
	return string(t)
}

func (Missing) String() string {
	return "?"
}
