package pnts

import "fmt"

// ElementType is the per-point element shape of an attribute
type ElementType uint8

const (
	Scalar ElementType = iota
	Vec2
	Vec3
	Vec4
)

// Components returns the number of components per element
func (e ElementType) Components() int {
	switch e {
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	default:
		return 1
	}
}

func (e ElementType) String() string {
	switch e {
	case Scalar:
		return "SCALAR"
	case Vec2:
		return "VEC2"
	case Vec3:
		return "VEC3"
	case Vec4:
		return "VEC4"
	}
	return fmt.Sprintf("ElementType(%d)", uint8(e))
}

// ComponentType is the storage datatype of a single attribute component
type ComponentType uint8

const (
	Int8 ComponentType = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
)

// Size returns the width of one component in bytes
func (c ComponentType) Size() int {
	switch c {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

func (c ComponentType) String() string {
	switch c {
	case Int8:
		return "BYTE"
	case UInt8:
		return "UNSIGNED_BYTE"
	case Int16:
		return "SHORT"
	case UInt16:
		return "UNSIGNED_SHORT"
	case Int32:
		return "INT"
	case UInt32:
		return "UNSIGNED_INT"
	case Float32:
		return "FLOAT"
	case Float64:
		return "DOUBLE"
	}
	return fmt.Sprintf("ComponentType(%d)", uint8(c))
}

// ComponentTypeFromLegacy maps a legacy component-datatype name (as it
// appears in feature/batch table JSON) to its ComponentType
//
// also used by the draco bridge to tag decoded attribute streams
func ComponentTypeFromLegacy(name string) (ComponentType, error) {
	if ct, ok := legacyComponentTypes[name]; ok {
		return ct, nil
	}
	return 0, fmt.Errorf("unknown component type %q", name)
}

// ElementTypeFromLegacy maps a legacy array-type name (SCALAR, VEC2,
// VEC3, VEC4) to its ElementType
func ElementTypeFromLegacy(name string) (ElementType, error) {
	if et, ok := legacyElementTypes[name]; ok {
		return et, nil
	}
	return 0, fmt.Errorf("unknown element type %q", name)
}

var legacyComponentTypes = map[string]ComponentType{
	"BYTE":           Int8,
	"UNSIGNED_BYTE":  UInt8,
	"SHORT":          Int16,
	"UNSIGNED_SHORT": UInt16,
	"INT":            Int32,
	"UNSIGNED_INT":   UInt32,
	"FLOAT":          Float32,
	"DOUBLE":         Float64,
}

var legacyElementTypes = map[string]ElementType{
	"SCALAR": Scalar,
	"VEC2":   Vec2,
	"VEC3":   Vec3,
	"VEC4":   Vec4,
}
