package tree_test

import (
	"context"
	"testing"

	"github.com/canopyml/canopy/feature"
	"github.com/canopyml/canopy/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrediction(t *testing.T, counts map[string]int) *tree.Prediction {
	t.Helper()
	p, err := tree.NewPrediction(counts)
	require.NoError(t, err)
	return p
}

/*
fruitTree builds the tree

	Is diameter >= 3
	  true:  Is color == Yellow
	    true:  {Apple: 1, Lemon: 1}
	    false: {Apple: 1}
	  false: {Grape: 2}
*/
func fruitTree(t *testing.T) *tree.Tree {
	t.Helper()
	yellowBranch := tree.NewBranch(
		feature.NewQuestion("color", 0, feature.Text("Yellow")),
		tree.NewLeaf(mustPrediction(t, map[string]int{"Apple": 1, "Lemon": 1})),
		tree.NewLeaf(mustPrediction(t, map[string]int{"Apple": 1})),
	)
	root := tree.NewBranch(
		feature.NewQuestion("diameter", 1, feature.Numeric(3)),
		yellowBranch,
		tree.NewLeaf(mustPrediction(t, map[string]int{"Grape": 2})),
	)
	return tree.New(root, "fruit")
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	tr := fruitTree(t)
	testCases := []struct {
		name      string
		row       []feature.Value
		wantLabel string
		wantProb  float64
	}{
		{"small fruit", []feature.Value{feature.Text("Red"), feature.Numeric(1), feature.Missing{}}, "Grape", 1.0},
		{"big green fruit", []feature.Value{feature.Text("Green"), feature.Numeric(3), feature.Missing{}}, "Apple", 1.0},
		{"big yellow fruit", []feature.Value{feature.Text("Yellow"), feature.Numeric(4), feature.Missing{}}, "Apple", 0.5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tr.Classify(ctx, tc.row)
			require.NoError(t, err)
			label, prob := p.PredictedLabel()
			assert.Equal(t, tc.wantLabel, label)
			assert.InDelta(t, tc.wantProb, prob, 1e-9)
		})
	}
}

func TestClassifyRoutesMissingDownFalseBranches(t *testing.T) {
	ctx := context.Background()
	tr := fruitTree(t)
	p, err := tr.Classify(ctx, []feature.Value{feature.Missing{}, feature.Missing{}, feature.Missing{}})
	require.NoError(t, err)
	label, prob := p.PredictedLabel()
	assert.Equal(t, "Grape", label)
	assert.InDelta(t, 1.0, prob, 1e-9)
}

func TestClassifyWithoutRoot(t *testing.T) {
	ctx := context.Background()
	_, err := tree.New(nil, "fruit").Classify(ctx, []feature.Value{feature.Missing{}})
	assert.Error(t, err)
}

func TestClassifyHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fruitTree(t).Classify(ctx, []feature.Value{feature.Text("Red"), feature.Numeric(1), feature.Missing{}})
	assert.Error(t, err)
}

func TestTraverseTopDownVisitsBranchesBeforeSubtrees(t *testing.T) {
	ctx := context.Background()
	tr := fruitTree(t)
	var visited []string
	err := tr.Traverse(ctx, false, func(_ context.Context, n tree.Node) error {
		switch n := n.(type) {
		case *tree.Branch:
			visited = append(visited, n.Question().Header())
		case *tree.Leaf:
			visited = append(visited, n.Prediction().String())
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"diameter",
		"color",
		"{Apple: 1, Lemon: 1}",
		"{Apple: 1}",
		"{Grape: 2}",
	}, visited)
}

func TestTraverseBottomUpVisitsSubtreesBeforeBranches(t *testing.T) {
	ctx := context.Background()
	tr := fruitTree(t)
	var visited []string
	err := tr.Traverse(ctx, true, func(_ context.Context, n tree.Node) error {
		switch n := n.(type) {
		case *tree.Branch:
			visited = append(visited, n.Question().Header())
		case *tree.Leaf:
			visited = append(visited, n.Prediction().String())
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"{Apple: 1, Lemon: 1}",
		"{Apple: 1}",
		"color",
		"{Grape: 2}",
		"diameter",
	}, visited)
}

func TestLeaves(t *testing.T) {
	assert.Equal(t, 3, fruitTree(t).Leaves())
	assert.Equal(t, 1, tree.New(tree.NewLeaf(mustPrediction(t, map[string]int{"Apple": 1})), "fruit").Leaves())
}

func TestTreeString(t *testing.T) {
	rendered := fruitTree(t).String()
	assert.Contains(t, rendered, "Is diameter >= 3")
	assert.Contains(t, rendered, "Is color == Yellow")
	assert.Contains(t, rendered, "{Grape: 2}")
	assert.Contains(t, rendered, "|__")
}
