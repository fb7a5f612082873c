// Package format implements the byte-level framing shared by every part of
// the file: little-endian fixed-width integers and the compressed block
// wrapper described in the file format's §4.1.
package format

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PeekReader is satisfied by buffered readers (such as *bufio.Reader) that
// can expose bytes already sitting in their internal buffer without an
// extra copy. ReadCompressedBlock uses it to decompress directly out of the
// reader's buffer when enough bytes are already available, skipping the
// scratch-buffer read.
type PeekReader interface {
	io.Reader
	Peek(n int) ([]byte, error)
	Discard(n int) (int, error)
}

func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func WriteUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func AppendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func AppendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func DecodeUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func DecodeUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// ErrShortRead is returned (wrapped) whenever a read cannot produce as many
// bytes as a declared length requires.
var ErrShortRead = fmt.Errorf("short read")
