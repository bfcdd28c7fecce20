package pnts

import (
	"errors"
	"fmt"

	vec3 "github.com/flywave/go3d/float64/vec3"
)

// DecodeOptions represents the decoding options passed to Decode
type DecodeOptions struct {
	// Transfer is the gamma-to-linear transfer function applied to all
	// color paths (RGB, RGBA, RGB565, CONSTANT_RGBA)
	//
	// defaults to SRGBToLinear
	Transfer TransferFunc
	// Decoder decodes mesh-compressed attribute streams for this call
	//
	// defaults to the decoder installed with RegisterCompressedDecoder
	Decoder CompressedDecoder
}

// Decode produces a fully normalized PointCloud from a parsed feature
// table, its binary body, and the parsed batch table (which may be
// nil)
//
// attribute sources are consulted in fixed precedence order: attributes
// decoded from the mesh-compression extension always win; raw fields
// fill only the slots still empty. On any error no cloud is returned.
func Decode(table *FeatureTable, body []byte, batch *BatchTable, options *DecodeOptions) (*PointCloud, error) {
	if options == nil {
		options = &DecodeOptions{}
	}
	transfer := options.Transfer
	if transfer == nil {
		transfer = SRGBToLinear
	}
	numPoints, ok, err := table.Uint32(SemPointsLength, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s not present", ErrFormat, SemPointsLength)
	}
	cloud := NewPointCloud(int(numPoints))

	// step 1: mesh-compressed attributes override everything else
	if err := decodeCompressed(cloud, table, body, batch, int(numPoints), transfer, options.Decoder); err != nil {
		return nil, err
	}

	// step 2: position - raw floats win over quantized
	if !cloud.Has(AttrPosition) {
		switch {
		case table.Has(SemPosition):
			ref, err := table.Ref(SemPosition)
			if err != nil {
				return nil, err
			}
			if err := cloud.SetPositions(newBinaryView(body, ref.ByteOffset, Vec3, Float32, int(numPoints))); err != nil {
				return nil, err
			}
		case table.Has(SemPositionQuantized):
			if !table.Has(SemQuantizedVolumeOffset) || !table.Has(SemQuantizedVolumeScale) {
				return nil, fmt.Errorf("%w: %s requires %s and %s", ErrFormat, SemPositionQuantized, SemQuantizedVolumeOffset, SemQuantizedVolumeScale)
			}
			scale, _, err := table.Global(SemQuantizedVolumeScale, Vec3, Float32, body)
			if err != nil {
				return nil, err
			}
			ref, err := table.Ref(SemPositionQuantized)
			if err != nil {
				return nil, err
			}
			src := newBinaryView(body, ref.ByteOffset, Vec3, UInt16, int(numPoints))
			if err := cloud.SetPositions(&dequantView{src: src, scale: [3]float64(scale)}); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: neither %s nor %s present", ErrFormat, SemPosition, SemPositionQuantized)
		}
	}

	// step 3: normal - raw floats win over oct-encoded
	if !cloud.Has(AttrNormal) {
		if table.Has(SemNormal) {
			ref, err := table.Ref(SemNormal)
			if err != nil {
				return nil, err
			}
			if err := cloud.SetNormals(newBinaryView(body, ref.ByteOffset, Vec3, Float32, int(numPoints))); err != nil {
				return nil, err
			}
		} else if table.Has(SemNormalOct16P) {
			ref, err := table.Ref(SemNormalOct16P)
			if err != nil {
				return nil, err
			}
			src := newBinaryView(body, ref.ByteOffset, Vec2, UInt8, int(numPoints))
			if err := cloud.SetNormals(&octView{src: src}); err != nil {
				return nil, err
			}
		}
	}

	// step 4: color - RGBA > RGB > RGB565
	if !cloud.Has(AttrColor) {
		var colors Values
		switch {
		case table.Has(SemRGBA):
			ref, err := table.Ref(SemRGBA)
			if err != nil {
				return nil, err
			}
			colors = &colorView{src: newBinaryView(body, ref.ByteOffset, Vec4, UInt8, int(numPoints)), transfer: transfer}
		case table.Has(SemRGB):
			ref, err := table.Ref(SemRGB)
			if err != nil {
				return nil, err
			}
			colors = &colorView{src: newBinaryView(body, ref.ByteOffset, Vec3, UInt8, int(numPoints)), transfer: transfer}
		case table.Has(SemRGB565):
			ref, err := table.Ref(SemRGB565)
			if err != nil {
				return nil, err
			}
			colors = &colorView{src: newBinaryView(body, ref.ByteOffset, Scalar, UInt16, int(numPoints)), transfer: transfer, packed: true}
		}
		if colors != nil {
			if err := cloud.SetNormalizedLinearColors(colors); err != nil {
				return nil, err
			}
		}
	}

	// step 5: feature ids
	if !cloud.Has(AttrFeatureID) && table.Has(SemBatchID) {
		if !table.Has(SemBatchLength) {
			return nil, fmt.Errorf("%w: %s requires %s", ErrFormat, SemBatchID, SemBatchLength)
		}
		ref, err := table.Ref(SemBatchID)
		if err != nil {
			return nil, err
		}
		ct := UInt16 // unspecified component datatype defaults to unsigned 16-bit
		if ref.ComponentType != "" {
			if ct, err = ComponentTypeFromLegacy(ref.ComponentType); err != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrFormat, SemBatchID, err)
			}
		}
		if err := cloud.AddAttribute(AttrFeatureID, newBinaryView(body, ref.ByteOffset, Scalar, ct, int(numPoints))); err != nil {
			return nil, err
		}
	}

	// step 6: constant color is a whole-cloud tint, never per-point
	if !cloud.Has(AttrColor) {
		if rgba, ok, err := table.Global(SemConstantRGBA, Vec4, UInt8, body); err != nil {
			return nil, err
		} else if ok {
			cloud.SetGlobalColor(linearRGBA(transfer, rgba))
		}
	}

	// step 7: global position - Y-up source folded to Z-up target
	var global *vec3.T
	if rtc, ok, err := table.Global(SemRTCCenter, Vec3, Float32, body); err != nil {
		return nil, err
	} else if ok {
		global = &vec3.T{rtc[0], rtc[2], -rtc[1]}
	}
	if table.Has(SemQuantizedVolumeOffset) && table.Has(SemQuantizedVolumeScale) {
		offset, _, err := table.Global(SemQuantizedVolumeOffset, Vec3, Float32, body)
		if err != nil {
			return nil, err
		}
		if global == nil {
			global = &vec3.T{}
		}
		global.Add(&vec3.T{offset[0], offset[2], -offset[1]})
	}
	if global != nil {
		cloud.SetGlobalPosition([3]float64(*global))
	}

	return cloud, nil
}

// decodeCompressed runs the mesh-compression extension path: build the
// union of feature-table and batch-table draco properties, invoke the
// bridge once, and store every returned stream before any raw decode
// is considered
func decodeCompressed(cloud *PointCloud, table *FeatureTable, body []byte, batch *BatchTable, numPoints int, transfer TransferFunc, decoder CompressedDecoder) error {
	ext, err := table.Draco()
	if err != nil {
		return err
	}
	if ext == nil {
		return nil
	}
	properties := make(map[string]int32, len(ext.Properties))
	for name, id := range ext.Properties {
		properties[name] = id
	}
	var batchExt *DracoExtension
	if batch != nil {
		if batchExt, err = batch.Draco(); err != nil {
			return err
		}
		if batchExt != nil {
			for name, id := range batchExt.Properties {
				properties[name] = id
			}
		}
	}
	if decoder == nil {
		if decoder, err = registeredCompressedDecoder(); err != nil {
			return fmt.Errorf("%w: decoder init: %s", ErrCompression, err)
		}
		if decoder == nil {
			return fmt.Errorf("%w: no compressed-attribute decoder available", ErrCompression)
		}
	}
	end := int(ext.ByteOffset) + int(ext.ByteLength)
	if end > len(body) {
		return fmt.Errorf("%w: compressed blob at 0x%X+%d exceeds body length %d", ErrRange, ext.ByteOffset, ext.ByteLength, len(body))
	}
	result, err := decoder.DecodePointCloud(properties, body[ext.ByteOffset:end])
	if err != nil {
		if errors.Is(err, ErrCompression) {
			return err
		}
		return fmt.Errorf("%w: %s", ErrCompression, err)
	}
	// well-known semantics first, in slot precedence order
	for _, sem := range []string{SemPosition, SemRGBA, SemRGB, SemNormal, SemBatchID} {
		attr, ok := result[sem]
		if !ok {
			continue
		}
		ct, err := ComponentTypeFromLegacy(attr.ComponentType)
		if err != nil {
			return fmt.Errorf("%w: %s: %s", ErrCompression, sem, err)
		}
		switch sem {
		case SemPosition:
			err = cloud.SetPositions(newBinaryView(attr.Data, attr.ByteOffset, Vec3, ct, numPoints))
		case SemRGBA:
			err = cloud.SetNormalizedLinearColors(&colorView{src: newBinaryView(attr.Data, attr.ByteOffset, Vec4, ct, numPoints), transfer: transfer})
		case SemRGB:
			if cloud.Has(AttrColor) {
				continue
			}
			err = cloud.SetNormalizedLinearColors(&colorView{src: newBinaryView(attr.Data, attr.ByteOffset, Vec3, ct, numPoints), transfer: transfer})
		case SemNormal:
			err = cloud.SetNormals(newBinaryView(attr.Data, attr.ByteOffset, Vec3, ct, numPoints))
		case SemBatchID:
			err = cloud.AddAttribute(AttrFeatureID, newBinaryView(attr.Data, attr.ByteOffset, Scalar, ct, numPoints))
		}
		if err != nil {
			return err
		}
	}
	// everything else is a batch-table custom property, typed by its
	// side-table declaration
	for name, attr := range result {
		switch name {
		case SemPosition, SemRGBA, SemRGB, SemNormal, SemBatchID:
			continue
		}
		ct, err := ComponentTypeFromLegacy(attr.ComponentType)
		if err != nil {
			return fmt.Errorf("%w: %s: %s", ErrCompression, name, err)
		}
		et := Scalar
		if batch != nil {
			if ref, ok := batch.Ref(name); ok && ref.Type != "" {
				if et, err = ElementTypeFromLegacy(ref.Type); err != nil {
					return fmt.Errorf("%w: %s: %s", ErrFormat, name, err)
				}
			}
		}
		if err := cloud.AddAttribute(name, newBinaryView(attr.Data, attr.ByteOffset, et, ct, numPoints)); err != nil {
			return err
		}
	}
	return nil
}
