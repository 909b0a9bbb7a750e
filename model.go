package canopy

import (
	"context"
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	"github.com/canopyml/canopy/tree"
)

// ModelError represents an error related with model usage
type ModelError string

/*
ErrNotTrained is the error returned when a model is asked to
classify rows or expose its tree before a successful Train call.
*/
const ErrNotTrained = ModelError("model has no trained tree")

func (me ModelError) Error() string {
	return string(me)
}

/*
Model holds a schema and, after a successful Train call, the tree
grown from the training dataset. Train replaces the tree
wholesale; there are no incremental updates.

A model is not safe for concurrent use: it assumes it is trained
fully before any Classify call is issued against it.
*/
type Model struct {
	schema *feature.Schema
	tree   *tree.Tree
}

/*
NewModel takes a schema and returns an untrained model for it.
*/
func NewModel(schema *feature.Schema) *Model {
	return &Model{schema: schema}
}

/*
Schema returns the schema of the model.
*/
func (m *Model) Schema() *feature.Schema {
	return m.schema
}

/*
Trained returns whether the model holds a trained tree.
*/
func (m *Model) Trained() bool {
	return m.tree != nil
}

/*
Train takes a context and a training dataset, validates its rows
against the model's schema and grows the model's tree from them,
replacing any previously trained tree. It returns an error if a
row does not conform to the schema, the dataset is empty or
cannot be queried, or the given context times out or is cancelled.
On error the previously trained tree, if any, is kept.
*/
func (m *Model) Train(ctx context.Context, ds dataset.Dataset) error {
	rows, err := ds.Rows(ctx)
	if err != nil {
		return fmt.Errorf("training model: %v", err)
	}
	for i, r := range rows {
		if err := r.Validate(m.schema); err != nil {
			return fmt.Errorf("training model: row %d: %v", i, err)
		}
	}
	t, err := Grow(ctx, ds)
	if err != nil {
		return fmt.Errorf("training model: %v", err)
	}
	m.tree = t
	return nil
}

/*
Classify takes a context and a row and returns the class counts of
the leaf the row lands on, or an error. The returned prediction is
owned by the model's tree and must not be mutated. Classifying
with an untrained model returns ErrNotTrained.
*/
func (m *Model) Classify(ctx context.Context, row dataset.Row) (*tree.Prediction, error) {
	if m.tree == nil {
		return nil, ErrNotTrained
	}
	return m.tree.Classify(ctx, row)
}

/*
Tree returns the trained tree of the model for read-only
traversal and display, or ErrNotTrained if the model has not been
trained.
*/
func (m *Model) Tree() (*tree.Tree, error) {
	if m.tree == nil {
		return nil, ErrNotTrained
	}
	return m.tree, nil
}

/*
Test takes a context and a dataset and returns the rate of rows in
it whose most probable predicted label equals their own label, or
an error if the model is untrained, a row cannot be classified or
its label obtained, or the dataset is empty.
*/
func (m *Model) Test(ctx context.Context, ds dataset.Dataset) (float64, error) {
	if m.tree == nil {
		return 0.0, ErrNotTrained
	}
	rows, err := ds.Rows(ctx)
	if err != nil {
		return 0.0, fmt.Errorf("testing model: %v", err)
	}
	if len(rows) == 0 {
		return 0.0, fmt.Errorf("testing model: cannot test against an empty dataset")
	}
	var hits float64
	for _, r := range rows {
		p, err := m.tree.Classify(ctx, r)
		if err != nil {
			return 0.0, fmt.Errorf("testing model: %v", err)
		}
		label, err := r.Label()
		if err != nil {
			return 0.0, fmt.Errorf("testing model: %v", err)
		}
		predicted, _ := p.PredictedLabel()
		if predicted == string(label) {
			hits += 1.0
		}
	}
	return hits / float64(len(rows)), nil
}
