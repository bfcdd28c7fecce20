package pnts

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Header represents the parsed pnts tile container header (28 bytes)
type Header struct {
	Magic                        string
	Version                      uint32
	ByteLength                   uint32
	FeatureTableJSONByteLength   uint32
	FeatureTableBinaryByteLength uint32
	BatchTableJSONByteLength     uint32
	BatchTableBinaryByteLength   uint32
}

const headerLength = 28

func parseHeader(r io.Reader) (Header, error) {
	var buf [headerLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, err
	}
	magic := string(buf[0:4])
	if magic != "pnts" {
		return Header{}, fmt.Errorf("%w: missing 'pnts' magic", ErrFormat)
	}
	hdr := Header{
		Magic:                        magic,
		Version:                      binary.LittleEndian.Uint32(buf[4:8]),
		ByteLength:                   binary.LittleEndian.Uint32(buf[8:12]),
		FeatureTableJSONByteLength:   binary.LittleEndian.Uint32(buf[12:16]),
		FeatureTableBinaryByteLength: binary.LittleEndian.Uint32(buf[16:20]),
		BatchTableJSONByteLength:     binary.LittleEndian.Uint32(buf[20:24]),
		BatchTableBinaryByteLength:   binary.LittleEndian.Uint32(buf[24:28]),
	}
	if hdr.Version != 1 {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrFormat, hdr.Version)
	}
	sections := uint64(headerLength) + uint64(hdr.FeatureTableJSONByteLength) + uint64(hdr.FeatureTableBinaryByteLength) +
		uint64(hdr.BatchTableJSONByteLength) + uint64(hdr.BatchTableBinaryByteLength)
	if sections != uint64(hdr.ByteLength) {
		return Header{}, fmt.Errorf("%w: declared sections total %d, byteLength is %d", ErrFormat, sections, hdr.ByteLength)
	}
	return hdr, nil
}
