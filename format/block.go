package format

import (
	"fmt"
	"io"

	"github.com/colnative/native/compress"
)

// WriteCompressedBlock frames src as a compressed block:
//
//	codec  : u8
//	comp   : u32 LE
//	uncomp : u32 LE
//	bytes  : comp bytes
//
// scratch is reused across calls to avoid allocating a new compression
// buffer per page; its backing array may grow but is never shrunk.
func WriteCompressedBlock(w io.Writer, codec compress.Codec, src []byte, scratch *[]byte) (int, error) {
	written := 0

	if codec.Kind() == compress.None {
		if err := WriteUint8(w, uint8(compress.None)); err != nil {
			return written, err
		}
		written++
		if err := WriteUint32(w, uint32(len(src))); err != nil {
			return written, err
		}
		written += 4
		if err := WriteUint32(w, uint32(len(src))); err != nil {
			return written, err
		}
		written += 4
		n, err := w.Write(src)
		return written + n, err
	}

	compressed, err := codec.Encode((*scratch)[:0], src)
	if err != nil {
		return written, fmt.Errorf("compressing block with codec %s: %w", codec.Kind(), err)
	}
	*scratch = compressed

	if err := WriteUint8(w, uint8(codec.Kind())); err != nil {
		return written, err
	}
	written++
	if err := WriteUint32(w, uint32(len(compressed))); err != nil {
		return written, err
	}
	written += 4
	if err := WriteUint32(w, uint32(len(src))); err != nil {
		return written, err
	}
	written += 4
	n, err := w.Write(compressed)
	return written + n, err
}

// ReadCompressedBlock reads a compressed block from r and returns its
// decompressed bytes, appended to dst[:0] (dst is reused across pages when
// the caller owns a scratch buffer). scratch holds the compressed bytes
// read off r when zero-copy access to r's internal buffer isn't available.
//
// If r implements PeekReader and already buffers at least `comp` bytes,
// those bytes are decompressed directly from the reader's internal buffer
// (no intermediate copy into scratch) and then discarded from r.
func ReadCompressedBlock(r io.Reader, dst []byte, scratch *[]byte) ([]byte, error) {
	codecByte, err := ReadUint8(r)
	if err != nil {
		return nil, fmt.Errorf("reading compressed block codec: %w", err)
	}
	comp, err := ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading compressed block length: %w", err)
	}
	uncomp, err := ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading uncompressed block length: %w", err)
	}

	kind := compress.Kind(codecByte)

	if kind == compress.None {
		if comp != uncomp {
			return nil, fmt.Errorf("corrupted block: uncompressed size %d does not match compressed size %d for codec NONE", uncomp, comp)
		}
		if cap(dst) < int(uncomp) {
			dst = make([]byte, uncomp)
		}
		dst = dst[:uncomp]
		if _, err := io.ReadFull(r, dst); err != nil {
			return nil, fmt.Errorf("reading uncompressed block payload: %w", ErrShortRead)
		}
		return dst, nil
	}

	codec, err := compress.Lookup(kind)
	if err != nil {
		return nil, err
	}

	if cap(dst) < int(uncomp) {
		dst = make([]byte, uncomp)
	}
	dst = dst[:uncomp]

	if pr, ok := r.(PeekReader); ok {
		buffered, err := pr.Peek(int(comp))
		if err == nil {
			out, err := codec.Decode(dst, buffered)
			if err != nil {
				return nil, fmt.Errorf("decompressing block with codec %s: %w", kind, err)
			}
			if len(out) != int(uncomp) {
				return nil, fmt.Errorf("corrupted block: decompressed %d bytes, expected %d", len(out), uncomp)
			}
			if _, err := pr.Discard(int(comp)); err != nil {
				return nil, fmt.Errorf("discarding compressed block payload: %w", err)
			}
			return out, nil
		}
	}

	if cap(*scratch) < int(comp) {
		*scratch = make([]byte, comp)
	}
	*scratch = (*scratch)[:comp]
	if _, err := io.ReadFull(r, *scratch); err != nil {
		return nil, fmt.Errorf("reading compressed block payload: %w", ErrShortRead)
	}

	out, err := codec.Decode(dst, *scratch)
	if err != nil {
		return nil, fmt.Errorf("decompressing block with codec %s: %w", kind, err)
	}
	if len(out) != int(uncomp) {
		return nil, fmt.Errorf("corrupted block: decompressed %d bytes, expected %d", len(out), uncomp)
	}
	return out, nil
}
