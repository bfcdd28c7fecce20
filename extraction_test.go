package pnts

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildComposite(inner ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("cmpt")
	total := 16
	for _, tile := range inner {
		total += len(tile)
	}
	for _, v := range []uint32{1, uint32(total), uint32(len(inner))} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	for _, tile := range inner {
		buf.Write(tile)
	}
	return buf.Bytes()
}

func fakeInnerTile(magic string, payload int) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	for _, v := range []uint32{1, uint32(12 + payload)} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.Write(make([]byte, payload))
	return buf.Bytes()
}

func TestExtractFromComposite(t *testing.T) {
	ftJSON := `{"POINTS_LENGTH": 1, "POSITION": {"byteOffset": 0}}`
	var ftBinary bytes.Buffer
	writeFloat32s(&ftBinary, 1, 2, 3)
	pntsTile := buildTile(t, ftJSON, ftBinary.Bytes(), "", nil)

	t.Run("Single", func(t *testing.T) {
		tiles, err := ExtractFromComposite(bytes.NewReader(buildComposite(pntsTile)), nil)
		require.NoError(t, err)
		require.Len(t, tiles, 1)
		positions, ok := tiles[0].Points.Positions()
		require.True(t, ok)
		assert.Equal(t, []float64{1, 2, 3}, mustFlatten(t, positions))
	})
	t.Run("SkipsOtherTileTypes", func(t *testing.T) {
		raw := buildComposite(fakeInnerTile("b3dm", 40), pntsTile, fakeInnerTile("i3dm", 8))
		tiles, err := ExtractFromComposite(bytes.NewReader(raw), nil)
		require.NoError(t, err)
		assert.Len(t, tiles, 1)
	})
	t.Run("Nested", func(t *testing.T) {
		raw := buildComposite(pntsTile, buildComposite(pntsTile, pntsTile))
		tiles, err := ExtractFromComposite(bytes.NewReader(raw), nil)
		require.NoError(t, err)
		assert.Len(t, tiles, 3)
	})
	t.Run("NoPointClouds", func(t *testing.T) {
		_, err := ExtractFromComposite(bytes.NewReader(buildComposite(fakeInnerTile("b3dm", 4))), nil)
		assert.ErrorIs(t, err, ErrFormat)
		assert.ErrorContains(t, err, "no point-cloud tiles")
	})
	t.Run("BadMagic", func(t *testing.T) {
		raw := buildComposite(pntsTile)
		copy(raw, "glTF")
		_, err := ExtractFromComposite(bytes.NewReader(raw), nil)
		assert.ErrorIs(t, err, ErrFormat)
	})
	t.Run("InnerParseError", func(t *testing.T) {
		bad := make([]byte, len(pntsTile))
		copy(bad, pntsTile)
		// corrupt the inner feature table JSON
		bad[headerLength] = '!'
		_, err := ExtractFromComposite(bytes.NewReader(buildComposite(bad)), nil)
		assert.ErrorIs(t, err, ErrFormat)
	})
}
