// Package compress provides the codec implementations used to frame
// compressed blocks in the native columnar file format.
//
// Each codec operates on whole buffers (one page's values or validity
// bitmap at a time) rather than on a continuous stream, since every
// compressed block in the file is self-delimiting by its declared
// compressed/uncompressed lengths.
package compress

import "fmt"

// Kind identifies a compression codec by the on-disk u8 tag written at the
// head of every compressed block.
type Kind uint8

const (
	None Kind = iota
	LZ4
	Zstd
	Snappy
)

func (k Kind) String() string {
	switch k {
	case None:
		return "NONE"
	case LZ4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Snappy:
		return "SNAPPY"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Codec represents a compression codec that compresses and decompresses
// whole buffers.
//
// Codec instances must be safe to use concurrently from multiple goroutines.
type Codec interface {
	// Kind returns the on-disk tag identifying this codec.
	Kind() Kind

	// Encode writes the compressed version of src to dst and returns it,
	// reallocating dst if its capacity is too small.
	Encode(dst, src []byte) ([]byte, error)

	// Decode writes the uncompressed version of src to dst and returns it.
	// dst must have enough capacity to hold the decompressed output; the
	// caller is expected to size it from the block's declared uncompressed
	// length.
	Decode(dst, src []byte) ([]byte, error)
}

// Lookup returns the Codec registered for k, or an error if k is not a
// recognized codec tag.
func Lookup(k Kind) (Codec, error) {
	if int(k) < len(registry) {
		if c := registry[k]; c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("compress: unsupported codec %s", k)
}

// Register installs a codec implementation under its Kind. Called from the
// init functions of the none/lz4/zstd/snappy sub-packages so that importing
// one of them wires its codec into the table; this package registers none
// itself.
func Register(c Codec) {
	for int(c.Kind()) >= len(registry) {
		registry = append(registry, nil)
	}
	registry[c.Kind()] = c
}

var registry []Codec
