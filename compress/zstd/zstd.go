// Package zstd implements the ZSTD compression codec used to frame
// compressed pages in the native columnar file format.
package zstd

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/colnative/native/compress"
)

func init() {
	compress.Register(&Codec{})
}

// Codec implements compress.Codec on top of klauspost/compress/zstd's
// single-shot EncodeAll/DecodeAll API. Encoders and decoders are expensive
// to construct, so one of each is kept per goroutine via sync.Pool, mirroring
// the pooled compressed-page-reader pattern used elsewhere in this family of
// codecs.
type Codec struct{}

func (c *Codec) Kind() compress.Kind { return compress.Zstd }

var encoders sync.Pool // *zstd.Encoder

func getEncoder() (*zstd.Encoder, error) {
	if e, ok := encoders.Get().(*zstd.Encoder); ok {
		return e, nil
	}
	return zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithZeroFrames(true),
	)
}

func putEncoder(e *zstd.Encoder) { encoders.Put(e) }

var decoders sync.Pool // *zstd.Decoder

func getDecoder() (*zstd.Decoder, error) {
	if d, ok := decoders.Get().(*zstd.Decoder); ok {
		return d, nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

func putDecoder(d *zstd.Decoder) { decoders.Put(d) }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	e, err := getEncoder()
	if err != nil {
		return dst, fmt.Errorf("zstd: %w", err)
	}
	defer putEncoder(e)
	return e.EncodeAll(src, dst[:0]), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	d, err := getDecoder()
	if err != nil {
		return dst, fmt.Errorf("zstd: %w", err)
	}
	defer putDecoder(d)
	out, err := d.DecodeAll(src, dst[:0])
	if err != nil {
		return dst, fmt.Errorf("zstd: decoding block: %w", err)
	}
	return out, nil
}
