package feature_test

import (
	"testing"

	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericFieldValid(t *testing.T) {
	f := feature.NewNumericField("diameter")

	ok, err := f.Valid(feature.Numeric(3))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Valid(feature.Missing{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Valid(feature.Text("3"))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNumericFieldParse(t *testing.T) {
	f := feature.NewNumericField("diameter")

	v, err := f.Parse("3.5")
	require.NoError(t, err)
	assert.Equal(t, feature.Numeric(3.5), v)

	_, err = f.Parse("big")
	assert.Error(t, err)
}

func TestTextFieldValid(t *testing.T) {
	f := feature.NewTextField("color")

	ok, err := f.Valid(feature.Text("Green"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Valid(feature.Missing{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Valid(feature.Numeric(3))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewSchema(t *testing.T) {
	schema, err := feature.NewSchema([]feature.Field{
		feature.NewTextField("color"),
		feature.NewNumericField("diameter"),
		feature.NewTextField("fruit"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, schema.Len())
	assert.Equal(t, 2, schema.LabelColumn())
	assert.Equal(t, "fruit", schema.Label().Name())
	assert.Equal(t, []string{"color", "diameter", "fruit"}, schema.Names())
}

func TestNewSchemaRejectsTooFewFields(t *testing.T) {
	_, err := feature.NewSchema([]feature.Field{feature.NewTextField("fruit")})
	assert.Error(t, err)
}

func TestNewSchemaRejectsNumericLabel(t *testing.T) {
	_, err := feature.NewSchema([]feature.Field{
		feature.NewTextField("color"),
		feature.NewNumericField("diameter"),
	})
	assert.Error(t, err)
}
