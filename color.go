package pnts

import "math"

// TransferFunc converts one gamma-encoded color component in [0,1] to
// its linear value in [0,1]
//
// the decode pipeline applies the same transfer to every color path
// (RGB, RGBA, RGB565 and CONSTANT_RGBA); alpha is never transferred
type TransferFunc func(float64) float64

// SRGBToLinear is the IEC 61966-2-1 piecewise sRGB transfer function,
// the default for DecodeOptions.Transfer
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearTransfer is the identity transfer, for sources whose byte
// colors are already linear
func LinearTransfer(c float64) float64 { return c }

// unpackRGB565 expands a packed 5/6/5 16-bit color to standard byte
// components: R in bits 15-11, G in 10-5, B in 4-0
func unpackRGB565(packed uint16) (r, g, b uint8) {
	r5 := (packed >> 11) & 0x1F
	g6 := (packed >> 5) & 0x3F
	b5 := packed & 0x1F
	// widen by max-value rescale, rounding to nearest
	r = uint8((uint32(r5)*255 + 15) / 31)
	g = uint8((uint32(g6)*255 + 31) / 63)
	b = uint8((uint32(b5)*255 + 15) / 31)
	return r, g, b
}

// colorView lazily converts a raw color view (RGBA/RGB bytes, or
// packed RGB565 scalars when packed is set) to normalized-linear RGBA
type colorView struct {
	src      Values
	transfer TransferFunc
	packed   bool
}

func (v *colorView) Len() int                     { return v.src.Len() }
func (v *colorView) ElementType() ElementType     { return Vec4 }
func (v *colorView) ComponentType() ComponentType { return Float32 }

func (v *colorView) Element(i int) ([]float64, error) {
	e, err := v.src.Element(i)
	if err != nil {
		return nil, err
	}
	if v.packed {
		r, g, b := unpackRGB565(uint16(e[0]))
		e = []float64{float64(r), float64(g), float64(b)}
	}
	rgba := linearRGBA(v.transfer, e)
	return rgba[:], nil
}

// linearRGBA converts standard byte color components to a
// normalized-linear 4-tuple; alpha defaults to 1.0 when absent
func linearRGBA(transfer TransferFunc, comps []float64) [4]float64 {
	out := [4]float64{0, 0, 0, 1.0}
	for i := 0; i < 3 && i < len(comps); i++ {
		out[i] = transfer(comps[i] / 255.0)
	}
	if len(comps) > 3 {
		out[3] = comps[3] / 255.0
	}
	return out
}
