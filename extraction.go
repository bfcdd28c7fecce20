package pnts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ExtractFromComposite extracts point-cloud tiles from a cmpt
// composite tile, recursing into nested composites
//
// inner tiles of other types (b3dm, i3dm) are skipped, not errors
func ExtractFromComposite(r io.Reader, options *ParseOptions) ([]*Tile, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read composite header: %w", err)
	}
	if string(header[:4]) != "cmpt" {
		return nil, fmt.Errorf("%w: missing 'cmpt' magic", ErrFormat)
	}
	if version := binary.LittleEndian.Uint32(header[4:8]); version != 1 {
		return nil, fmt.Errorf("%w: unsupported composite version %d", ErrFormat, version)
	}
	tilesLength := binary.LittleEndian.Uint32(header[12:16])
	var result []*Tile
	for i := uint32(0); i < tilesLength; i++ {
		// every inner tile starts magic, version, byteLength
		inner := make([]byte, 12)
		if _, err := io.ReadFull(r, inner); err != nil {
			return nil, fmt.Errorf("failed to read inner tile %d header: %w", i, err)
		}
		byteLength := binary.LittleEndian.Uint32(inner[8:12])
		if byteLength < 12 {
			return nil, fmt.Errorf("%w: inner tile %d declares byteLength %d", ErrFormat, i, byteLength)
		}
		rest := make([]byte, byteLength-12)
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, fmt.Errorf("failed to read inner tile %d: %w", i, err)
		}
		tileReader := io.MultiReader(bytes.NewReader(inner), bytes.NewReader(rest))
		switch string(inner[:4]) {
		case "pnts":
			tile, err := ParseTile(tileReader, options)
			if err != nil {
				return nil, fmt.Errorf("inner tile %d: %w", i, err)
			}
			result = append(result, tile)
		case "cmpt":
			nested, err := ExtractFromComposite(tileReader, options)
			if err != nil {
				return nil, fmt.Errorf("inner tile %d: %w", i, err)
			}
			result = append(result, nested...)
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no point-cloud tiles in composite", ErrFormat)
	}
	return result, nil
}
