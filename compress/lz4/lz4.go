// Package lz4 implements the LZ4 block compression codec used to frame
// compressed pages in the native columnar file format.
package lz4

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/colnative/native/compress"
)

func init() {
	compress.Register(&Codec{Level: DefaultLevel})
}

type Level = lz4.CompressionLevel

const (
	Fast   = lz4.Fast
	Level1 = lz4.Level1
	Level2 = lz4.Level2
	Level3 = lz4.Level3
)

const DefaultLevel = Fast

// Codec implements compress.Codec using raw LZ4 block framing (no LZ4
// frame headers; the compressed-block wrapper already carries the
// compressed/uncompressed lengths).
type Codec struct {
	Level Level
}

func (c *Codec) Kind() compress.Kind { return compress.LZ4 }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	bound := lz4.CompressBlockBound(len(src))
	if cap(dst) < bound {
		dst = make([]byte, bound)
	}
	dst = dst[:bound]

	compressor := lz4.CompressorHC{Level: c.Level}
	n, err := compressor.CompressBlock(src, dst)
	if err != nil {
		return dst, fmt.Errorf("lz4: compressing block: %w", err)
	}
	return dst[:n], nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return dst, fmt.Errorf("lz4: uncompressing block: %w", err)
	}
	return dst[:n], nil
}
