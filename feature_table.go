package pnts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Recognized feature table semantics
const (
	SemPosition              = "POSITION"
	SemPositionQuantized     = "POSITION_QUANTIZED"
	SemNormal                = "NORMAL"
	SemNormalOct16P          = "NORMAL_OCT16P"
	SemRGB                   = "RGB"
	SemRGBA                  = "RGBA"
	SemRGB565                = "RGB565"
	SemConstantRGBA          = "CONSTANT_RGBA"
	SemBatchID               = "BATCH_ID"
	SemBatchLength           = "BATCH_LENGTH"
	SemPointsLength          = "POINTS_LENGTH"
	SemRTCCenter             = "RTC_CENTER"
	SemQuantizedVolumeOffset = "QUANTIZED_VOLUME_OFFSET"
	SemQuantizedVolumeScale  = "QUANTIZED_VOLUME_SCALE"
)

// ExtDracoPointCompression is the mesh-compression extension name
const ExtDracoPointCompression = "3DTILES_draco_point_compression"

// FieldRef is a field descriptor: a reference into the binary body,
// optionally declaring its component datatype and array type
type FieldRef struct {
	ByteOffset    uint32 `json:"byteOffset"`
	ComponentType string `json:"componentType,omitempty"`
	Type          string `json:"type,omitempty"`
}

// DracoExtension is a 3DTILES_draco_point_compression block - in a
// feature table it locates the compressed blob within the binary body;
// in a batch table only Properties is populated
type DracoExtension struct {
	ByteOffset uint32           `json:"byteOffset"`
	ByteLength uint32           `json:"byteLength"`
	Properties map[string]int32 `json:"properties"`
}

// FeatureTable is the parsed header/table: recognized semantics mapped
// to inline values or field descriptors, plus extensions
type FeatureTable struct {
	entries    map[string]json.RawMessage
	Extensions map[string]json.RawMessage
}

// ParseFeatureTable parses the feature table JSON region
func ParseFeatureTable(data []byte) (*FeatureTable, error) {
	entries, extensions, err := parseTableJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: feature table: %s", ErrFormat, err)
	}
	return &FeatureTable{entries: entries, Extensions: extensions}, nil
}

// Has reports whether a semantic is declared
func (t *FeatureTable) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Ref returns the field descriptor for a semantic
func (t *FeatureTable) Ref(name string) (FieldRef, error) {
	raw, ok := t.entries[name]
	if !ok {
		return FieldRef{}, fmt.Errorf("%w: %s not present", ErrFormat, name)
	}
	var ref FieldRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return FieldRef{}, fmt.Errorf("%w: %s is not a field descriptor: %s", ErrFormat, name, err)
	}
	return ref, nil
}

// Global resolves a non-per-point value: either an inline scalar/array
// or a binary-body reference to a single element of the given shape
func (t *FeatureTable) Global(name string, et ElementType, ct ComponentType, body []byte) ([]float64, bool, error) {
	raw, ok := t.entries[name]
	if !ok {
		return nil, false, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		ref, err := t.Ref(name)
		if err != nil {
			return nil, false, err
		}
		e, err := newBinaryView(body, ref.ByteOffset, et, ct, 1).Element(0)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", name, err)
		}
		return e, true, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []float64
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %s", ErrFormat, name, err)
		}
		if len(arr) != et.Components() {
			return nil, false, fmt.Errorf("%w: %s has %d components, expected %d", ErrFormat, name, len(arr), et.Components())
		}
		return arr, true, nil
	}
	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %s", ErrFormat, name, err)
	}
	return []float64{scalar}, true, nil
}

// Uint32 resolves a non-per-point unsigned scalar (POINTS_LENGTH,
// BATCH_LENGTH)
func (t *FeatureTable) Uint32(name string, body []byte) (uint32, bool, error) {
	v, ok, err := t.Global(name, Scalar, UInt32, body)
	if err != nil || !ok {
		return 0, ok, err
	}
	return uint32(v[0]), true, nil
}

// Draco returns the table's mesh-compression extension block, if
// declared
func (t *FeatureTable) Draco() (*DracoExtension, error) {
	return dracoExtension(t.Extensions)
}

// BatchTable is the parsed side table: per-point custom application
// properties, parallel to the feature table
type BatchTable struct {
	entries    map[string]json.RawMessage
	Extensions map[string]json.RawMessage
}

// ParseBatchTable parses the batch table JSON region; empty input
// yields an empty table
func ParseBatchTable(data []byte) (*BatchTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &BatchTable{entries: map[string]json.RawMessage{}}, nil
	}
	entries, extensions, err := parseTableJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: batch table: %s", ErrFormat, err)
	}
	return &BatchTable{entries: entries, Extensions: extensions}, nil
}

// Has reports whether a property is declared
func (t *BatchTable) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// PropertyNames lists declared property names, sorted
func (t *BatchTable) PropertyNames() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ref returns the field descriptor for a property; ok is false for
// inline (non-reference) properties
func (t *BatchTable) Ref(name string) (FieldRef, bool) {
	raw, present := t.entries[name]
	if !present {
		return FieldRef{}, false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return FieldRef{}, false
	}
	var ref FieldRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return FieldRef{}, false
	}
	return ref, true
}

// Draco returns the table's mesh-compression extension block, if
// declared
func (t *BatchTable) Draco() (*DracoExtension, error) {
	return dracoExtension(t.Extensions)
}

func parseTableJSON(data []byte) (map[string]json.RawMessage, map[string]json.RawMessage, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, err
	}
	var extensions map[string]json.RawMessage
	if raw, ok := entries["extensions"]; ok {
		if err := json.Unmarshal(raw, &extensions); err != nil {
			return nil, nil, fmt.Errorf("extensions: %s", err)
		}
		delete(entries, "extensions")
	}
	// unknown extras (extras, application keys) stay in entries and are
	// simply never consulted
	return entries, extensions, nil
}

func dracoExtension(extensions map[string]json.RawMessage) (*DracoExtension, error) {
	raw, ok := extensions[ExtDracoPointCompression]
	if !ok {
		return nil, nil
	}
	var ext DracoExtension
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrFormat, ExtDracoPointCompression, err)
	}
	return &ext, nil
}
