package pnts

import (
	vec3 "github.com/flywave/go3d/float64/vec3"
)

// octDecode decodes a 2-byte octahedron-projected unit vector (the
// NORMAL_OCT16P encoding) back to a unit 3-vector
//
// each byte spans [-1,1] over its 0-255 range; z is reconstructed from
// the projection, the lower hemisphere is folded back, and the result
// is renormalized
func octDecode(xb, yb uint8) [3]float64 {
	x := float64(xb)/255.0*2.0 - 1.0
	y := float64(yb)/255.0*2.0 - 1.0
	z := 1.0 - abs(x) - abs(y)
	if z < 0 {
		ox := x
		x = (1.0 - abs(y)) * signNotZero(ox)
		y = (1.0 - abs(ox)) * signNotZero(y)
	}
	v := vec3.T{x, y, z}
	v.Normalize()
	return [3]float64(v)
}

// octView lazily oct-decodes a VEC2 byte view into unit normals
type octView struct {
	src Values
}

func (v *octView) Len() int                     { return v.src.Len() }
func (v *octView) ElementType() ElementType     { return Vec3 }
func (v *octView) ComponentType() ComponentType { return Float32 }

func (v *octView) Element(i int) ([]float64, error) {
	e, err := v.src.Element(i)
	if err != nil {
		return nil, err
	}
	n := octDecode(uint8(e[0]), uint8(e[1]))
	return n[:], nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// signNotZero treats zero as positive - required so folded components
// keep a defined direction on the octahedron seam
func signNotZero(v float64) float64 {
	if v < 0 {
		return -1.0
	}
	return 1.0
}
