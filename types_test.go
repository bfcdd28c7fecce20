package pnts

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestComponentTypeFromLegacy(t *testing.T) {
	cases := map[string]ComponentType{
		"BYTE":           Int8,
		"UNSIGNED_BYTE":  UInt8,
		"SHORT":          Int16,
		"UNSIGNED_SHORT": UInt16,
		"INT":            Int32,
		"UNSIGNED_INT":   UInt32,
		"FLOAT":          Float32,
		"DOUBLE":         Float64,
	}
	for name, expect := range cases {
		t.Run(name, func(t *testing.T) {
			ct, err := ComponentTypeFromLegacy(name)
			require.NoError(t, err)
			assert.Equal(t, expect, ct)
			assert.Equal(t, name, ct.String())
		})
	}
	t.Run("Unknown", func(t *testing.T) {
		_, err := ComponentTypeFromLegacy("HALF")
		assert.ErrorContains(t, err, "unknown component type")
	})
}

func TestElementTypeFromLegacy(t *testing.T) {
	cases := map[string]ElementType{
		"SCALAR": Scalar,
		"VEC2":   Vec2,
		"VEC3":   Vec3,
		"VEC4":   Vec4,
	}
	for name, expect := range cases {
		t.Run(name, func(t *testing.T) {
			et, err := ElementTypeFromLegacy(name)
			require.NoError(t, err)
			assert.Equal(t, expect, et)
			assert.Equal(t, name, et.String())
		})
	}
	t.Run("Unknown", func(t *testing.T) {
		_, err := ElementTypeFromLegacy("MAT4")
		assert.ErrorContains(t, err, "unknown element type")
	})
}

func TestComponentType_Size(t *testing.T) {
	assert.Equal(t, 1, Int8.Size())
	assert.Equal(t, 1, UInt8.Size())
	assert.Equal(t, 2, Int16.Size())
	assert.Equal(t, 2, UInt16.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 4, UInt32.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
}

func TestElementType_Components(t *testing.T) {
	assert.Equal(t, 1, Scalar.Components())
	assert.Equal(t, 2, Vec2.Components())
	assert.Equal(t, 3, Vec3.Components())
	assert.Equal(t, 4, Vec4.Components())
}
