package json_test

import (
	"testing"

	"github.com/canopyml/canopy/dataset"
	jsonds "github.com/canopyml/canopy/dataset/json"
	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fruitSchema(t *testing.T) *feature.Schema {
	t.Helper()
	schema, err := feature.NewSchema([]feature.Field{
		feature.NewTextField("color"),
		feature.NewNumericField("diameter"),
		feature.NewTextField("fruit"),
	})
	require.NoError(t, err)
	return schema
}

func TestEncode(t *testing.T) {
	red := jsonds.New(fruitSchema(t))

	data, err := red.Encode(dataset.Row{feature.Text("Green"), feature.Numeric(3), feature.Text("Apple")})
	require.NoError(t, err)
	assert.Equal(t, `["Green",3,"Apple"]`, string(data))

	data, err = red.Encode(dataset.Row{feature.Missing{}, feature.Missing{}, feature.Text("Lemon")})
	require.NoError(t, err)
	assert.Equal(t, `[null,null,"Lemon"]`, string(data))
}

func TestEncodeRejectsInvalidRow(t *testing.T) {
	red := jsonds.New(fruitSchema(t))
	_, err := red.Encode(dataset.Row{feature.Text("Green"), feature.Text("big"), feature.Text("Apple")})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	red := jsonds.New(fruitSchema(t))

	row, err := red.Decode([]byte(`["Green",3,"Apple"]`))
	require.NoError(t, err)
	assert.Equal(t, dataset.Row{feature.Text("Green"), feature.Numeric(3), feature.Text("Apple")}, row)

	row, err = red.Decode([]byte(`[null,null,"Lemon"]`))
	require.NoError(t, err)
	assert.Equal(t, dataset.Row{feature.Missing{}, feature.Missing{}, feature.Text("Lemon")}, row)
}

func TestDecodeRejectsVariantMismatch(t *testing.T) {
	red := jsonds.New(fruitSchema(t))

	_, err := red.Decode([]byte(`["Green","big","Apple"]`))
	assert.Error(t, err)

	_, err = red.Decode([]byte(`[3,3,"Apple"]`))
	assert.Error(t, err)
}

func TestDecodeRejectsWrongCellCount(t *testing.T) {
	red := jsonds.New(fruitSchema(t))
	_, err := red.Decode([]byte(`["Green",3]`))
	assert.Error(t, err)
}
