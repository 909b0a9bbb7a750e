package canopy_test

import (
	"context"
	"testing"

	"github.com/canopyml/canopy"
	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedFruitModel(t *testing.T) *canopy.Model {
	t.Helper()
	model := canopy.NewModel(fruitSchema(t))
	err := model.Train(context.Background(), dataset.New(fruitSchema(t), fruitRows()))
	require.NoError(t, err)
	return model
}

func TestModelTrainAndClassify(t *testing.T) {
	ctx := context.Background()
	model := trainedFruitModel(t)
	assert.True(t, model.Trained())

	testCases := []struct {
		name      string
		row       dataset.Row
		wantLabel string
		wantProb  float64
	}{
		{"big green fruit", dataset.Row{feature.Text("Green"), feature.Numeric(3), feature.Missing{}}, "Apple", 1.0},
		{"big yellow fruit", dataset.Row{feature.Text("Yellow"), feature.Numeric(3), feature.Missing{}}, "Apple", 0.5},
		{"small fruit", dataset.Row{feature.Text("Red"), feature.Numeric(1), feature.Missing{}}, "Grape", 1.0},
		{"nothing known", dataset.Row{feature.Missing{}, feature.Missing{}, feature.Missing{}}, "Grape", 1.0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := model.Classify(ctx, tc.row)
			require.NoError(t, err)
			label, prob := p.PredictedLabel()
			assert.Equal(t, tc.wantLabel, label)
			assert.InDelta(t, tc.wantProb, prob, 1e-9)
		})
	}
}

func TestModelTree(t *testing.T) {
	model := trainedFruitModel(t)
	tr, err := model.Tree()
	require.NoError(t, err)
	assert.Equal(t, "fruit", tr.Label)
	assert.Equal(t, 3, tr.Leaves())
}

func TestModelClassifiesEveryTrainingRowToExactlyOneLeaf(t *testing.T) {
	ctx := context.Background()
	model := trainedFruitModel(t)
	for _, r := range fruitRows() {
		p, err := model.Classify(ctx, r)
		require.NoError(t, err)
		assert.True(t, p.Total() > 0)
	}
}

func TestModelTest(t *testing.T) {
	ctx := context.Background()
	model := trainedFruitModel(t)
	// The Lemon training row shares every feature value with an
	// Apple row, so it is the only one the tree cannot get right.
	rate, err := model.Test(ctx, dataset.New(fruitSchema(t), fruitRows()))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, rate, 1e-9)
}

func TestModelTestAgainstEmptyDataset(t *testing.T) {
	ctx := context.Background()
	model := trainedFruitModel(t)
	_, err := model.Test(ctx, dataset.New(fruitSchema(t), nil))
	assert.Error(t, err)
}

func TestUntrainedModel(t *testing.T) {
	ctx := context.Background()
	model := canopy.NewModel(fruitSchema(t))
	assert.False(t, model.Trained())

	_, err := model.Classify(ctx, fruitRows()[0])
	assert.Equal(t, canopy.ErrNotTrained, err)

	_, err = model.Tree()
	assert.Equal(t, canopy.ErrNotTrained, err)

	_, err = model.Test(ctx, dataset.New(fruitSchema(t), fruitRows()))
	assert.Equal(t, canopy.ErrNotTrained, err)
}

func TestModelTrainRejectsEmptyDataset(t *testing.T) {
	ctx := context.Background()
	model := canopy.NewModel(fruitSchema(t))
	err := model.Train(ctx, dataset.New(fruitSchema(t), nil))
	assert.Error(t, err)
	assert.False(t, model.Trained())
}

func TestModelTrainRejectsRowsBreakingTheSchema(t *testing.T) {
	ctx := context.Background()
	model := canopy.NewModel(fruitSchema(t))
	err := model.Train(ctx, dataset.New(fruitSchema(t), []dataset.Row{
		{feature.Text("Green"), feature.Text("big"), feature.Text("Apple")},
	}))
	assert.Error(t, err)
	assert.False(t, model.Trained())
}

func TestModelTrainKeepsPreviousTreeOnFailure(t *testing.T) {
	ctx := context.Background()
	model := trainedFruitModel(t)

	err := model.Train(ctx, dataset.New(fruitSchema(t), nil))
	assert.Error(t, err)
	assert.True(t, model.Trained())

	p, err := model.Classify(ctx, dataset.Row{feature.Text("Red"), feature.Numeric(1), feature.Missing{}})
	require.NoError(t, err)
	label, _ := p.PredictedLabel()
	assert.Equal(t, "Grape", label)
}

func TestGrow(t *testing.T) {
	ctx := context.Background()
	tr, err := canopy.Grow(ctx, dataset.New(fruitSchema(t), fruitRows()))
	require.NoError(t, err)
	assert.Equal(t, "fruit", tr.Label)
	assert.Equal(t, 3, tr.Leaves())
}

func TestGrowSingleRowDataset(t *testing.T) {
	ctx := context.Background()
	tr, err := canopy.Grow(ctx, dataset.New(fruitSchema(t), fruitRows()[:1]))
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Leaves())

	p, err := tr.Classify(ctx, []feature.Value{feature.Missing{}, feature.Missing{}, feature.Missing{}})
	require.NoError(t, err)
	label, prob := p.PredictedLabel()
	assert.Equal(t, "Apple", label)
	assert.InDelta(t, 1.0, prob, 1e-9)
}

func TestGrowRejectsEmptyDataset(t *testing.T) {
	ctx := context.Background()
	_, err := canopy.Grow(ctx, dataset.New(fruitSchema(t), nil))
	assert.Error(t, err)
}

func TestGrowHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := canopy.Grow(ctx, dataset.New(fruitSchema(t), fruitRows()))
	assert.Error(t, err)
}
