package tree_test

import (
	"testing"

	"github.com/canopyml/canopy/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrediction(t *testing.T) {
	p, err := tree.NewPrediction(map[string]int{"Apple": 2, "Lemon": 1})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total())
	assert.Equal(t, 2, p.CountOf("Apple"))
	assert.Equal(t, 0, p.CountOf("Grape"))
}

func TestNewPredictionRejectsEmptyCounts(t *testing.T) {
	_, err := tree.NewPrediction(nil)
	assert.Equal(t, tree.ErrCannotPredictFromEmptyCounts, err)

	_, err = tree.NewPrediction(map[string]int{})
	assert.Equal(t, tree.ErrCannotPredictFromEmptyCounts, err)
}

func TestPredictionProbabilities(t *testing.T) {
	p, err := tree.NewPrediction(map[string]int{"Apple": 3, "Lemon": 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, p.ProbabilityOf("Apple"), 1e-9)
	assert.InDelta(t, 0.25, p.ProbabilityOf("Lemon"), 1e-9)
	assert.Equal(t, 0.0, p.ProbabilityOf("Grape"))

	probs := p.Probabilities()
	assert.InDelta(t, 0.75, probs["Apple"], 1e-9)
	assert.InDelta(t, 0.25, probs["Lemon"], 1e-9)
}

func TestPredictedLabel(t *testing.T) {
	p, err := tree.NewPrediction(map[string]int{"Apple": 3, "Lemon": 1})
	require.NoError(t, err)
	label, prob := p.PredictedLabel()
	assert.Equal(t, "Apple", label)
	assert.InDelta(t, 0.75, prob, 1e-9)
}

func TestPredictedLabelResolvesTiesTowardsSmallerLabel(t *testing.T) {
	p, err := tree.NewPrediction(map[string]int{"Lemon": 2, "Apple": 2})
	require.NoError(t, err)
	label, prob := p.PredictedLabel()
	assert.Equal(t, "Apple", label)
	assert.InDelta(t, 0.5, prob, 1e-9)
}

func TestPredictionString(t *testing.T) {
	p, err := tree.NewPrediction(map[string]int{"Lemon": 1, "Apple": 2})
	require.NoError(t, err)
	assert.Equal(t, "{Apple: 2, Lemon: 1}", p.String())
}
