package canopy

import (
	"context"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
Split represents the best binary partition found for a dataset:
the question that produces it, the information gain it achieves
and the two sides of the partition. A split with a nil Question
and a Gain of 0 means no informative split exists for the dataset.
*/
type Split struct {
	Question  *feature.Question
	Gain      float64
	TrueSide  dataset.Dataset
	FalseSide dataset.Dataset
}

/*
InformationGain takes a context, the two sides of a binary
partition and the Gini impurity of the partitioned dataset and
returns the reduction in impurity the partition achieves, weighted
by the relative sizes of the sides. Higher is better.
*/
func InformationGain(ctx context.Context, trueSide, falseSide dataset.Dataset, parentImpurity float64) (float64, error) {
	trueCount, err := trueSide.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	falseCount, err := falseSide.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	if trueCount+falseCount == 0 {
		return 0.0, nil
	}
	trueImpurity, err := trueSide.GiniImpurity(ctx)
	if err != nil {
		return 0.0, err
	}
	falseImpurity, err := falseSide.GiniImpurity(ctx)
	if err != nil {
		return 0.0, err
	}
	p := float64(trueCount) / float64(trueCount+falseCount)
	return parentImpurity - p*trueImpurity - (1.0-p)*falseImpurity, nil
}

/*
BestSplit takes a context and a dataset and exhaustively probes
every (feature column, distinct value) pair for the binary
partition with the highest information gain, returning it as a
Split or an error.

Columns are scanned in ascending order and distinct values in the
order the dataset first encounters them. Partitions with an empty
side gain no information and are never selected. Among candidates
with equal gain the last one scanned wins: a candidate replaces
the current best when its gain is greater than or equal to it.
If no probe achieves positive gain the returned split has a nil
Question and a Gain of 0.
*/
func BestSplit(ctx context.Context, ds dataset.Dataset) (*Split, error) {
	schema := ds.Schema()
	parentImpurity, err := ds.GiniImpurity(ctx)
	if err != nil {
		return nil, err
	}
	best := &Split{}
	for column := 0; column < schema.LabelColumn(); column++ {
		values, err := ds.DistinctValues(ctx, column)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			q := feature.NewQuestion(schema.Field(column).Name(), column, value)
			trueSide, falseSide, err := ds.Partition(ctx, q)
			if err != nil {
				return nil, err
			}
			trueCount, err := trueSide.Count(ctx)
			if err != nil {
				return nil, err
			}
			falseCount, err := falseSide.Count(ctx)
			if err != nil {
				return nil, err
			}
			if trueCount == 0 || falseCount == 0 {
				continue
			}
			gain, err := InformationGain(ctx, trueSide, falseSide, parentImpurity)
			if err != nil {
				return nil, err
			}
			if gain >= best.Gain {
				best = &Split{q, gain, trueSide, falseSide}
			}
		}
	}
	if best.Gain == 0 {
		return &Split{}, nil
	}
	return best, nil
}
