// Package snappy implements the SNAPPY compression codec used to frame
// compressed pages in the native columnar file format.
//
// The SNAPPY format uses raw block encoding (no streaming frame format),
// which is exactly what klauspost/compress/snappy's Encode/Decode
// functions operate on.
package snappy

import (
	"fmt"

	"github.com/klauspost/compress/snappy"

	"github.com/colnative/native/compress"
)

func init() {
	compress.Register(&Codec{})
}

type Codec struct{}

func (c *Codec) Kind() compress.Kind { return compress.Snappy }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return snappy.Encode(dst[:0], src), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	out, err := snappy.Decode(dst[:0], src)
	if err != nil {
		return dst, fmt.Errorf("snappy: decoding block: %w", err)
	}
	return out, nil
}
