package csv_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/canopyml/canopy/dataset"
	csvds "github.com/canopyml/canopy/dataset/csv"
	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fruitCSV = `color,diameter,fruit
Green,3,Apple
Yellow,3,Apple
Red,1,Grape
?,?,Lemon
`

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

func TestReadDataset(t *testing.T) {
	ctx := context.Background()
	schema := fruitSchema(t)
	ds, err := csvds.ReadDataset(strings.NewReader(fruitCSV), schema, dataset.New)
	require.NoError(t, err)

	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	rows, err := ds.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset.Row{feature.Text("Green"), feature.Numeric(3), feature.Text("Apple")}, rows[0])
	assert.Equal(t, dataset.Row{feature.Missing{}, feature.Missing{}, feature.Text("Lemon")}, rows[3])
}

func TestReadDatasetRejectsMismatchedHeader(t *testing.T) {
	schema := fruitSchema(t)

	_, err := csvds.ReadDataset(strings.NewReader("color,fruit\nGreen,Apple\n"), schema, dataset.New)
	assert.Error(t, err)

	_, err = csvds.ReadDataset(strings.NewReader("diameter,color,fruit\n3,Green,Apple\n"), schema, dataset.New)
	assert.Error(t, err)
}

func TestReadDatasetRejectsUnparsableCell(t *testing.T) {
	schema := fruitSchema(t)
	_, err := csvds.ReadDataset(strings.NewReader("color,diameter,fruit\nGreen,big,Apple\n"), schema, dataset.New)
	assert.Error(t, err)
}

func TestReadDatasetByRowStopsWhenLambdaReturnsFalse(t *testing.T) {
	schema := fruitSchema(t)
	var visited int
	err := csvds.ReadDatasetByRow(strings.NewReader(fruitCSV), schema, func(i int, r dataset.Row) (bool, error) {
		visited++
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, visited)
}

func TestWriteDataset(t *testing.T) {
	ctx := context.Background()
	schema := fruitSchema(t)
	ds, err := csvds.ReadDataset(strings.NewReader(fruitCSV), schema, dataset.New)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = csvds.WriteDataset(ctx, &buf, ds)
	require.NoError(t, err)
	assert.Equal(t, fruitCSV, buf.String())
}

func TestWriterCount(t *testing.T) {
	ctx := context.Background()
	schema := fruitSchema(t)

	var buf bytes.Buffer
	w, err := csvds.NewWriter(&buf, schema)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Count())

	n, err := w.Write(ctx, []dataset.Row{
		{feature.Text("Green"), feature.Numeric(3), feature.Text("Apple")},
		{feature.Text("Red"), feature.Numeric(1), feature.Text("Grape")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Flush())
}
