package pnts

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Values is a lazy, restartable sequence of per-point attribute
// elements - a single number for SCALAR, a fixed-length tuple for
// VEC2/VEC3/VEC4
//
// views over the binary body are non-copying; out-of-range extents are
// detected on first read, not at construction
type Values interface {
	// Len is the number of elements (points) in the sequence
	Len() int
	ElementType() ElementType
	ComponentType() ComponentType
	// Element returns the components of element i
	Element(i int) ([]float64, error)
}

// binaryView reads elements straight out of the binary body - element
// width is component size × component count, stride equals element
// width, little-endian throughout
type binaryView struct {
	buf       []byte
	offset    int
	elemType  ElementType
	compType  ComponentType
	numPoints int
}

func newBinaryView(buf []byte, byteOffset uint32, et ElementType, ct ComponentType, numPoints int) *binaryView {
	return &binaryView{
		buf:       buf,
		offset:    int(byteOffset),
		elemType:  et,
		compType:  ct,
		numPoints: numPoints,
	}
}

func (v *binaryView) Len() int                     { return v.numPoints }
func (v *binaryView) ElementType() ElementType     { return v.elemType }
func (v *binaryView) ComponentType() ComponentType { return v.compType }

func (v *binaryView) Element(i int) ([]float64, error) {
	if i < 0 || i >= v.numPoints {
		return nil, fmt.Errorf("%w: element %d of %d", ErrRange, i, v.numPoints)
	}
	n := v.elemType.Components()
	w := v.compType.Size()
	base := v.offset + i*n*w
	if base < 0 || base+n*w > len(v.buf) {
		return nil, fmt.Errorf("%w: element %d at 0x%X+%d exceeds body length %d", ErrRange, i, base, n*w, len(v.buf))
	}
	out := make([]float64, n)
	for c := 0; c < n; c++ {
		out[c] = readComponent(v.buf[base+c*w:], v.compType)
	}
	return out, nil
}

func readComponent(raw []byte, ct ComponentType) float64 {
	switch ct {
	case Int8:
		return float64(int8(raw[0]))
	case UInt8:
		return float64(raw[0])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(raw)))
	case UInt16:
		return float64(binary.LittleEndian.Uint16(raw))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(raw)))
	case UInt32:
		return float64(binary.LittleEndian.Uint32(raw))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw))
	}
	return 0
}

// dequantView lazily rescales 16-bit quantized VEC3 positions into
// the quantized volume's float range, with a zero offset - the true
// volume offset is folded into the cloud's global position instead of
// being applied per point
type dequantView struct {
	src   Values
	scale [3]float64
}

func (v *dequantView) Len() int                     { return v.src.Len() }
func (v *dequantView) ElementType() ElementType     { return Vec3 }
func (v *dequantView) ComponentType() ComponentType { return Float32 }

func (v *dequantView) Element(i int) ([]float64, error) {
	e, err := v.src.Element(i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 3)
	for c := 0; c < 3; c++ {
		out[c] = e[c] / 65535.0 * v.scale[c]
	}
	return out, nil
}

// Flatten materializes every component of every element into one flat
// slice - mostly useful for tests and format converters
func Flatten(v Values) ([]float64, error) {
	n := v.ElementType().Components()
	out := make([]float64, 0, v.Len()*n)
	for i := 0; i < v.Len(); i++ {
		e, err := v.Element(i)
		if err != nil {
			return nil, err
		}
		out = append(out, e...)
	}
	return out, nil
}
