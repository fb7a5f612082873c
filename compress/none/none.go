// Package none implements the identity compression codec: it copies bytes
// through unchanged. It exists so the compressed-block framing can treat
// "no compression" uniformly with the other codecs.
package none

import "github.com/colnative/native/compress"

func init() {
	compress.Register(&Codec{})
}

type Codec struct{}

func (c *Codec) Kind() compress.Kind { return compress.None }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	dst = append(dst[:0], src...)
	return dst, nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst, nil
}
