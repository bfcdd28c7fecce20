package pnts

import "errors"

// Common errors
//
// all errors returned by this package wrap one of these sentinels -
// discriminate with errors.Is
var (
	// ErrFormat indicates a structurally invalid tile - a required
	// semantic or companion field is missing from the feature table
	ErrFormat = errors.New("invalid pnts tile")
	// ErrRange indicates a declared byte offset/stride that reads past
	// the end of the binary body
	ErrRange = errors.New("read past end of binary body")
	// ErrCompression indicates the external mesh-compression decoder
	// rejected the compressed buffer or property mapping
	ErrCompression = errors.New("draco decode failed")
)
