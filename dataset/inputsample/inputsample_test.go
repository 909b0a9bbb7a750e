package inputsample_test

import (
	"strings"
	"testing"

	"github.com/canopyml/canopy/dataset/inputsample"
	"github.com/canopyml/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRequester struct {
	requested []string
	rejected  []string
}

func (rr *recordingRequester) RequestValueFor(f feature.Field) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(f feature.Field, value string) error {
	rr.rejected = append(rr.rejected, value)
	return nil
}

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

func TestRead(t *testing.T) {
	rr := &recordingRequester{}
	row, err := inputsample.Read(strings.NewReader("Green\n3\n"), fruitSchema(t), rr, "?")
	require.NoError(t, err)
	require.Len(t, row, 3)
	assert.Equal(t, feature.Text("Green"), row[0])
	assert.Equal(t, feature.Numeric(3), row[1])
	assert.Equal(t, feature.Missing{}, row[2])
	assert.Equal(t, []string{"color", "diameter"}, rr.requested)
	assert.Empty(t, rr.rejected)
}

func TestReadUndefinedValue(t *testing.T) {
	rr := &recordingRequester{}
	row, err := inputsample.Read(strings.NewReader("?\n?\n"), fruitSchema(t), rr, "?")
	require.NoError(t, err)
	assert.Equal(t, feature.Missing{}, row[0])
	assert.Equal(t, feature.Missing{}, row[1])
}

func TestReadRetriesRejectedValues(t *testing.T) {
	rr := &recordingRequester{}
	row, err := inputsample.Read(strings.NewReader("Green\nbig\n3\n"), fruitSchema(t), rr, "?")
	require.NoError(t, err)
	assert.Equal(t, feature.Numeric(3), row[1])
	assert.Equal(t, []string{"big"}, rr.rejected)
}

func TestReadFailsOnExhaustedInput(t *testing.T) {
	rr := &recordingRequester{}
	_, err := inputsample.Read(strings.NewReader("Green\n"), fruitSchema(t), rr, "?")
	assert.Error(t, err)
}
