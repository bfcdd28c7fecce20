package pnts

import "sync"

// CompressedAttribute is one attribute stream produced by the external
// mesh-compression decoder: decoded little-endian bytes, the offset of
// the first element within them, and the legacy component datatype
// name of the decoded components
type CompressedAttribute struct {
	Data          []byte
	ByteOffset    uint32
	ComponentType string
}

// CompressedDecoder is the single-operation capability the decode
// pipeline needs from an external mesh-compression decoder: given the
// property name to compressed-stream id mapping and the compressed
// blob, return every decoded attribute stream by property name
//
// invoked at most once per decode call; a malformed buffer or mapping
// must return an error (it is surfaced wrapped in ErrCompression)
type CompressedDecoder interface {
	DecodePointCloud(properties map[string]int32, data []byte) (map[string]CompressedAttribute, error)
}

var (
	decoderMu   sync.Mutex
	decoderInit func() (CompressedDecoder, error)
)

// RegisterCompressedDecoder installs the process-wide default
// compressed-attribute decoder
//
// init may be expensive (loading an external module); it runs at most
// once, on the first decode call that needs it, and its result - value
// or error - is cached for the life of the process
func RegisterCompressedDecoder(init func() (CompressedDecoder, error)) {
	decoderMu.Lock()
	defer decoderMu.Unlock()
	decoderInit = sync.OnceValues(init)
}

func registeredCompressedDecoder() (CompressedDecoder, error) {
	decoderMu.Lock()
	init := decoderInit
	decoderMu.Unlock()
	if init == nil {
		return nil, nil
	}
	return init()
}
