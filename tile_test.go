package pnts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTile(t *testing.T, ftJSON string, ftBinary []byte, btJSON string, btBinary []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(buildHeader(1, uint32(len(ftJSON)), uint32(len(ftBinary)), uint32(len(btJSON)), uint32(len(btBinary))))
	buf.WriteString(ftJSON)
	buf.Write(ftBinary)
	buf.WriteString(btJSON)
	buf.Write(btBinary)
	return buf.Bytes()
}

func TestParseTile(t *testing.T) {
	ftJSON := `{"POINTS_LENGTH": 2, "POSITION": {"byteOffset": 0}, "RTC_CENTER": [1, 2, 3]}`
	var ftBinary bytes.Buffer
	writeFloat32s(&ftBinary, 1, 2, 3, 4, 5, 6)

	t.Run("Full", func(t *testing.T) {
		raw := buildTile(t, ftJSON, ftBinary.Bytes(), "", nil)
		tile, err := ParseTile(bytes.NewReader(raw), nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(len(raw)), tile.Header.ByteLength)
		require.NotNil(t, tile.FeatureTable)
		require.NotNil(t, tile.BatchTable)
		require.NotNil(t, tile.Points)
		assert.Equal(t, 2, tile.Points.Len())
		positions, ok := tile.Points.Positions()
		require.True(t, ok)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, mustFlatten(t, positions))
		global, ok := tile.Points.GlobalPosition()
		require.True(t, ok)
		assert.Equal(t, [3]float64{1, 3, -2}, global)
	})
	t.Run("TablesOnly", func(t *testing.T) {
		raw := buildTile(t, ftJSON, ftBinary.Bytes(), "", nil)
		tile, err := ParseTile(bytes.NewReader(raw), &ParseOptions{Mode: ParseTablesOnly})
		require.NoError(t, err)
		require.NotNil(t, tile.FeatureTable)
		assert.True(t, tile.FeatureTable.Has(SemPosition))
		assert.Equal(t, ftBinary.Bytes(), tile.FeatureTableBinary)
		assert.Nil(t, tile.Points)
	})
	t.Run("HeaderOnly", func(t *testing.T) {
		raw := buildTile(t, ftJSON, ftBinary.Bytes(), "", nil)
		tile, err := ParseTile(bytes.NewReader(raw), &ParseOptions{Mode: ParseHeaderOnly})
		require.NoError(t, err)
		assert.Nil(t, tile.FeatureTable)
		assert.Nil(t, tile.Points)
		assert.Equal(t, uint32(len(ftJSON)), tile.Header.FeatureTableJSONByteLength)
	})
	t.Run("WithBatchTable", func(t *testing.T) {
		btJSON := `{"Intensity": {"byteOffset": 0, "componentType": "FLOAT", "type": "SCALAR"}}`
		var btBinary bytes.Buffer
		writeFloat32s(&btBinary, 0.5, 0.25)
		raw := buildTile(t, ftJSON, ftBinary.Bytes(), btJSON, btBinary.Bytes())
		tile, err := ParseTile(bytes.NewReader(raw), nil)
		require.NoError(t, err)
		require.NotNil(t, tile.BatchTable)
		assert.True(t, tile.BatchTable.Has("Intensity"))
		assert.Equal(t, btBinary.Bytes(), tile.BatchTableBinary)
	})
	t.Run("BadMagic", func(t *testing.T) {
		raw := buildTile(t, ftJSON, ftBinary.Bytes(), "", nil)
		copy(raw, "i3dm")
		_, err := ParseTile(bytes.NewReader(raw), nil)
		assert.ErrorIs(t, err, ErrFormat)
	})
	t.Run("TruncatedBody", func(t *testing.T) {
		raw := buildTile(t, ftJSON, ftBinary.Bytes(), "", nil)
		_, err := ParseTile(bytes.NewReader(raw[:len(raw)-4]), nil)
		assert.Error(t, err)
	})
	t.Run("DecodeErrorPropagates", func(t *testing.T) {
		raw := buildTile(t, `{"POINTS_LENGTH": 1}`, nil, "", nil)
		_, err := ParseTile(bytes.NewReader(raw), nil)
		assert.ErrorIs(t, err, ErrFormat)
	})
}
