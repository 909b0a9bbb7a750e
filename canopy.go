/*
Package canopy grows binary classification decision trees over
tabular data mixing numeric and text features, splitting
recursively on the question that most reduces Gini impurity.
*/
package canopy

import (
	"context"
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/tree"
)

/*
Grow takes a context and a dataset and grows a decision tree
predicting the dataset's label field from its training rows,
returning it or an error.

Growing recursively partitions the dataset by the best splitting
question until no probe achieves positive information gain, at
which point the class counts of the remaining rows become a leaf.
Both sides of a selected split are non-empty, so every recursive
call receives strictly fewer rows and growing always terminates.

A non-nil error is returned if the dataset is empty, cannot be
queried, or the given context times out or is cancelled.
*/
func Grow(ctx context.Context, ds dataset.Dataset) (*tree.Tree, error) {
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("growing tree: cannot grow from an empty dataset")
	}
	root, err := grow(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	return tree.New(root, ds.Schema().Label().Name()), nil
}

func grow(ctx context.Context, ds dataset.Dataset) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	split, err := BestSplit(ctx, ds)
	if err != nil {
		return nil, err
	}
	if split.Question == nil {
		counts, err := ds.ClassCounts(ctx)
		if err != nil {
			return nil, err
		}
		prediction, err := tree.NewPrediction(counts)
		if err != nil {
			return nil, err
		}
		return tree.NewLeaf(prediction), nil
	}
	trueBranch, err := grow(ctx, split.TrueSide)
	if err != nil {
		return nil, err
	}
	falseBranch, err := grow(ctx, split.FalseSide)
	if err != nil {
		return nil, err
	}
	return tree.NewBranch(split.Question, trueBranch, falseBranch), nil
}
