package feature_test

import (
	"testing"

	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
)

func TestNumericString(t *testing.T) {
	assert.Equal(t, "3", feature.Numeric(3).String())
	assert.Equal(t, "3.5", feature.Numeric(3.5).String())
	assert.Equal(t, "-0.25", feature.Numeric(-0.25).String())
}

func TestTextString(t *testing.T) {
	assert.Equal(t, "Green", feature.Text("Green").String())
	assert.Equal(t, "", feature.Text("").String())
}

func TestMissingString(t *testing.T) {
	assert.Equal(t, "?", feature.Missing{}.String())
}
