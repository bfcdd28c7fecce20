//go:build cgo

// Package draco adapts the Google Draco decoder (via the
// qmuntal/draco-go cgo binding) to the pnts compressed-attribute
// bridge contract
//
// kept out of the core package so that pnts itself stays cgo-free;
// wire it up once per process:
//
//	pnts.RegisterCompressedDecoder(draco.New)
package draco

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-andiamo/pnts"
	"github.com/qmuntal/draco-go/draco"
)

// Decoder decodes 3DTILES_draco_point_compression blobs
type Decoder struct{}

// New creates the draco-backed compressed-attribute decoder - the
// signature matches pnts.RegisterCompressedDecoder
func New() (pnts.CompressedDecoder, error) {
	return &Decoder{}, nil
}

// DecodePointCloud decodes the compressed blob once and exports each
// requested property's attribute stream as little-endian bytes tagged
// with its legacy component datatype name
func (d *Decoder) DecodePointCloud(properties map[string]int32, data []byte) (map[string]pnts.CompressedAttribute, error) {
	pc := draco.NewPointCloud()
	dec := draco.NewDecoder()
	if err := dec.DecodePointCloud(pc, data); err != nil {
		return nil, fmt.Errorf("%w: %s", pnts.ErrCompression, err)
	}
	result := make(map[string]pnts.CompressedAttribute, len(properties))
	for name, id := range properties {
		attr := pc.AttrByUniqueID(uint32(id))
		if attr == nil {
			return nil, fmt.Errorf("%w: no attribute with unique id %d for property %q", pnts.ErrCompression, id, name)
		}
		raw, legacy, err := attrBytes(pc, attr)
		if err != nil {
			return nil, fmt.Errorf("%w: property %q: %s", pnts.ErrCompression, name, err)
		}
		// sanity-check the name against the shared lookup tables
		if _, err := pnts.ComponentTypeFromLegacy(legacy); err != nil {
			return nil, fmt.Errorf("%w: property %q: %s", pnts.ErrCompression, name, err)
		}
		result[name] = pnts.CompressedAttribute{
			Data:          raw,
			ByteOffset:    0,
			ComponentType: legacy,
		}
	}
	return result, nil
}

// attrBytes reads one attribute's components out of the decoded point
// cloud and re-serializes them little-endian
func attrBytes(pc *draco.PointCloud, attr *draco.PointAttr) ([]byte, string, error) {
	switch attr.DataType() {
	case draco.DT_INT8:
		var v []int8
		pc.AttrData(attr, &v)
		out := make([]byte, len(v))
		for i, c := range v {
			out[i] = byte(c)
		}
		return out, "BYTE", nil
	case draco.DT_UINT8:
		var v []uint8
		pc.AttrData(attr, &v)
		out := make([]byte, len(v))
		copy(out, v)
		return out, "UNSIGNED_BYTE", nil
	case draco.DT_INT16:
		var v []int16
		pc.AttrData(attr, &v)
		out := make([]byte, 2*len(v))
		for i, c := range v {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(c))
		}
		return out, "SHORT", nil
	case draco.DT_UINT16:
		var v []uint16
		pc.AttrData(attr, &v)
		out := make([]byte, 2*len(v))
		for i, c := range v {
			binary.LittleEndian.PutUint16(out[i*2:], c)
		}
		return out, "UNSIGNED_SHORT", nil
	case draco.DT_INT32:
		var v []int32
		pc.AttrData(attr, &v)
		out := make([]byte, 4*len(v))
		for i, c := range v {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(c))
		}
		return out, "INT", nil
	case draco.DT_UINT32:
		var v []uint32
		pc.AttrData(attr, &v)
		out := make([]byte, 4*len(v))
		for i, c := range v {
			binary.LittleEndian.PutUint32(out[i*4:], c)
		}
		return out, "UNSIGNED_INT", nil
	case draco.DT_FLOAT32:
		var v []float32
		pc.AttrData(attr, &v)
		out := make([]byte, 4*len(v))
		for i, c := range v {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(c))
		}
		return out, "FLOAT", nil
	case draco.DT_FLOAT64:
		var v []float64
		pc.AttrData(attr, &v)
		out := make([]byte, 8*len(v))
		for i, c := range v {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(c))
		}
		return out, "DOUBLE", nil
	}
	return nil, "", fmt.Errorf("unsupported draco data type %d", attr.DataType())
}
