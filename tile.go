package pnts

import (
	"fmt"
	"io"
)

type ParseMode uint8

const (
	ParseFull ParseMode = iota
	ParseTablesOnly
	ParseHeaderOnly
)

// ParseOptions represents the parsing options passed to ParseTile
type ParseOptions struct {
	// Mode determines how much of the tile to parse
	//
	// the default is ParseFull - parses the container, the tables and
	// decodes the point attributes
	//
	// the minimal is ParseHeaderOnly - useful for just listing tile
	// section lengths
	//
	// ParseTablesOnly parses the container and both tables without
	// decoding point attributes
	Mode ParseMode
	// Transfer overrides the gamma-to-linear color transfer function
	Transfer TransferFunc
	// Decoder overrides the process-wide compressed-attribute decoder
	Decoder CompressedDecoder
}

// Tile represents the contents of a pnts tile
type Tile struct {
	// Header is the tile container header
	Header Header
	// FeatureTable is the parsed header/table region
	FeatureTable *FeatureTable
	// FeatureTableBinary is the binary body addressed by the feature
	// table's field descriptors
	FeatureTableBinary []byte
	// BatchTable is the parsed side table region
	BatchTable *BatchTable
	// BatchTableBinary is the binary body addressed by the batch
	// table's field descriptors
	BatchTableBinary []byte
	// Points is the decoded point cloud (nil unless Mode is ParseFull)
	Points *PointCloud
}

// ParseTile parses a pnts point-cloud tile from the supplied reader
// with the supplied ParseOptions
//
// if the ParseOptions supplied is nil, default (full) options are used
func ParseTile(r io.Reader, options *ParseOptions) (*Tile, error) {
	if options == nil {
		options = &ParseOptions{
			Mode: ParseFull,
		}
	}
	result := &Tile{}
	var err error
	if result.Header, err = parseHeader(r); err != nil || options.Mode >= ParseHeaderOnly {
		return result, err
	}
	if result.FeatureTable, result.FeatureTableBinary, err = readTableSection(r, result.Header.FeatureTableJSONByteLength, result.Header.FeatureTableBinaryByteLength, ParseFeatureTable); err != nil {
		return nil, err
	}
	if result.BatchTable, result.BatchTableBinary, err = readTableSection(r, result.Header.BatchTableJSONByteLength, result.Header.BatchTableBinaryByteLength, ParseBatchTable); err != nil {
		return nil, err
	}
	if options.Mode == ParseFull {
		result.Points, err = Decode(result.FeatureTable, result.FeatureTableBinary, result.BatchTable, &DecodeOptions{
			Transfer: options.Transfer,
			Decoder:  options.Decoder,
		})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func readTableSection[T any](r io.Reader, jsonLength, binaryLength uint32, parse func([]byte) (T, error)) (T, []byte, error) {
	var zero T
	jsonData := make([]byte, jsonLength)
	if _, err := io.ReadFull(r, jsonData); err != nil {
		return zero, nil, fmt.Errorf("failed to read table JSON: %w", err)
	}
	table, err := parse(jsonData)
	if err != nil {
		return zero, nil, err
	}
	body := make([]byte, binaryLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return zero, nil, fmt.Errorf("failed to read table binary: %w", err)
	}
	return table, body, nil
}
