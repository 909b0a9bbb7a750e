package feature_test

import (
	"testing"

	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionMatchNumericThreshold(t *testing.T) {
	q := feature.NewQuestion("diameter", 1, feature.Numeric(3))
	testCases := []struct {
		name string
		cell feature.Value
		want bool
	}{
		{"above threshold", feature.Numeric(4), true},
		{"at threshold", feature.Numeric(3), true},
		{"below threshold", feature.Numeric(2.9), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := []feature.Value{feature.Text("Green"), tc.cell, feature.Text("Apple")}
			got, err := q.Match(row)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuestionMatchTextEquality(t *testing.T) {
	q := feature.NewQuestion("color", 0, feature.Text("Green"))
	testCases := []struct {
		name string
		cell feature.Value
		want bool
	}{
		{"equal", feature.Text("Green"), true},
		{"different", feature.Text("Red"), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := []feature.Value{tc.cell, feature.Numeric(3), feature.Text("Apple")}
			got, err := q.Match(row)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuestionMatchMissingCellNeverMatches(t *testing.T) {
	row := []feature.Value{feature.Missing{}, feature.Missing{}, feature.Text("Apple")}

	got, err := feature.NewQuestion("color", 0, feature.Text("Green")).Match(row)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = feature.NewQuestion("diameter", 1, feature.Numeric(3)).Match(row)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = feature.NewQuestion("color", 0, feature.Missing{}).Match(row)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestQuestionMatchVariantMismatch(t *testing.T) {
	row := []feature.Value{feature.Text("Green"), feature.Numeric(3), feature.Text("Apple")}

	_, err := feature.NewQuestion("color", 0, feature.Numeric(3)).Match(row)
	assert.Error(t, err)

	_, err = feature.NewQuestion("diameter", 1, feature.Text("Green")).Match(row)
	assert.Error(t, err)
}

func TestQuestionMatchColumnOutOfRange(t *testing.T) {
	q := feature.NewQuestion("diameter", 3, feature.Numeric(3))
	_, err := q.Match([]feature.Value{feature.Text("Green"), feature.Numeric(3)})
	assert.Error(t, err)
}

func TestQuestionString(t *testing.T) {
	assert.Equal(t, "Is diameter >= 3", feature.NewQuestion("diameter", 1, feature.Numeric(3)).String())
	assert.Equal(t, "Is color == Green", feature.NewQuestion("color", 0, feature.Text("Green")).String())
}
