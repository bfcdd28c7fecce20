package pnts

import "fmt"

// Well-known attribute names
const (
	AttrPosition  = "POSITION"
	AttrNormal    = "NORMAL"
	AttrColor     = "COLOR_0"
	AttrFeatureID = "_FEATURE_ID_0"
)

// PointCloud is the canonical decoded point-cloud model: named
// per-point attributes plus optional whole-cloud position and color
//
// a PointCloud is built by one decode call and owned by the caller
// afterwards; attributes are added once and never replaced
type PointCloud struct {
	numPoints      int
	attrs          map[string]Values
	order          []string
	globalPosition *[3]float64
	globalColor    *[4]float64
}

// NewPointCloud creates an empty cloud of numPoints points
func NewPointCloud(numPoints int) *PointCloud {
	return &PointCloud{
		numPoints: numPoints,
		attrs:     make(map[string]Values),
	}
}

// Len is the number of points in the cloud
func (p *PointCloud) Len() int { return p.numPoints }

// AddAttribute stores a named per-point attribute
//
// fails if the name is already present - callers check Has first, which
// is what makes first-writer-wins precedence work without re-decoding
func (p *PointCloud) AddAttribute(name string, values Values) error {
	if _, ok := p.attrs[name]; ok {
		return fmt.Errorf("attribute %q already present", name)
	}
	p.attrs[name] = values
	p.order = append(p.order, name)
	return nil
}

// Has reports whether a named attribute is present
func (p *PointCloud) Has(name string) bool {
	_, ok := p.attrs[name]
	return ok
}

// Attribute retrieves a named attribute's values
func (p *PointCloud) Attribute(name string) (Values, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// AttributeNames lists attribute names in the order they were added
func (p *PointCloud) AttributeNames() []string {
	return p.order
}

// SetPositions stores per-point positions under the well-known
// POSITION attribute
func (p *PointCloud) SetPositions(values Values) error {
	return p.AddAttribute(AttrPosition, values)
}

// Positions retrieves the well-known POSITION attribute
func (p *PointCloud) Positions() (Values, bool) {
	return p.Attribute(AttrPosition)
}

// SetNormals stores per-point unit normals under the well-known
// NORMAL attribute
func (p *PointCloud) SetNormals(values Values) error {
	return p.AddAttribute(AttrNormal, values)
}

// Normals retrieves the well-known NORMAL attribute
func (p *PointCloud) Normals() (Values, bool) {
	return p.Attribute(AttrNormal)
}

// SetNormalizedLinearColors stores per-point normalized-linear RGBA
// colors under the well-known COLOR_0 attribute
func (p *PointCloud) SetNormalizedLinearColors(values Values) error {
	return p.AddAttribute(AttrColor, values)
}

// Colors retrieves the well-known COLOR_0 attribute
func (p *PointCloud) Colors() (Values, bool) {
	return p.Attribute(AttrColor)
}

// SetGlobalPosition sets the whole-cloud position offset (target
// axis convention, see Decode step 7)
func (p *PointCloud) SetGlobalPosition(pos [3]float64) {
	p.globalPosition = &pos
}

// GlobalPosition returns the whole-cloud position offset, if any
func (p *PointCloud) GlobalPosition() ([3]float64, bool) {
	if p.globalPosition == nil {
		return [3]float64{}, false
	}
	return *p.globalPosition, true
}

// SetGlobalColor sets the whole-cloud normalized-linear RGBA tint
// (CONSTANT_RGBA fallback - never merged per point)
func (p *PointCloud) SetGlobalColor(color [4]float64) {
	p.globalColor = &color
}

// GlobalColor returns the whole-cloud tint, if any
func (p *PointCloud) GlobalColor() ([4]float64, bool) {
	if p.globalColor == nil {
		return [4]float64{}, false
	}
	return *p.globalColor, true
}
