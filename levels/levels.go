// Package levels implements the hybrid RLE/bit-packed codec used to store
// Dremel-style repetition and definition levels inside a page.
//
// The wire format is the run-length/bit-packing hybrid described by the
// Parquet format (the same scheme the teacher's encoding/rle package
// implements for parquet's own rep/def levels), minus the leading 4-byte
// total-length prefix that format uses for level streams in v1 data pages:
// this package always writes "version-2" framing, where the byte length of
// the level stream is already known from the page header's rep_levels_len/
// def_levels_len fields, so no extra length prefix is needed inside the
// stream itself.
//
// Each run is prefixed by a varint header whose low bit selects the run
// kind:
//
//	header = (runLength << 1)          -- RLE run: runLength repeats of one
//	                                       ceil(bitWidth/8)-byte value
//	header = (numGroups  << 1) | 1     -- bit-packed run: numGroups groups
//	                                       of 8 values, each value packed
//	                                       into bitWidth bits, LSB-first
package levels

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/colnative/native/internal/bitutil"
)

const minRunLength = 8

// Encode appends the hybrid-encoded form of levels to dst and returns the
// extended slice. bitWidth must be >= 1; callers with a maxLevel of 0 must
// skip the level stream entirely rather than calling Encode.
func Encode(dst []byte, levels []int32, bitWidth int) []byte {
	valueWidth := bitutil.ByteCount(bitWidth)

	i := 0
	for i < len(levels) {
		j := runEnd(levels, i)
		if j-i >= minRunLength {
			dst = appendUvarint(dst, uint64(j-i)<<1)
			dst = appendValue(dst, levels[i], valueWidth)
			i = j
			continue
		}

		start := i
		for i < len(levels) {
			k := runEnd(levels, i)
			if k-i >= minRunLength {
				break
			}
			i = k
		}
		// A bit-packed run always decodes as whole groups of 8, so unless it
		// ends the stream it must cover a multiple of 8 values: absorb the
		// head of the following run rather than pad with zeros.
		for (i-start)%8 != 0 && i < len(levels) {
			i++
		}

		values := levels[start:i]
		numGroups := (len(values) + 7) / 8
		dst = appendUvarint(dst, uint64(numGroups)<<1|1)

		packedLen := numGroups * bitutil.ByteCount(8*bitWidth)
		offset := len(dst)
		dst = append(dst, make([]byte, packedLen)...)
		packed := dst[offset:]

		bitOffset := 0
		for _, v := range values {
			packBits(packed, bitOffset, uint32(v), bitWidth)
			bitOffset += bitWidth
		}
	}

	return dst
}

// Decode reads exactly count hybrid-encoded levels from src at bitWidth and
// appends them to dst.
func Decode(dst []int32, src []byte, bitWidth int, count int) ([]int32, error) {
	valueWidth := bitutil.ByteCount(bitWidth)
	groupWidth := bitutil.ByteCount(8 * bitWidth)

	decoded := 0
	for decoded < count {
		header, n := binary.Uvarint(src)
		if n <= 0 {
			return dst, fmt.Errorf("levels: decoding run header: %w", io.ErrUnexpectedEOF)
		}
		src = src[n:]

		runLength, bitpack := int(header>>1), header&1 != 0

		if !bitpack {
			if len(src) < valueWidth {
				return dst, fmt.Errorf("levels: decoding run-length value: %w", io.ErrUnexpectedEOF)
			}
			value := decodeValue(src[:valueWidth])
			src = src[valueWidth:]

			remaining := count - decoded
			if runLength > remaining {
				runLength = remaining
			}
			for k := 0; k < runLength; k++ {
				dst = append(dst, value)
			}
			decoded += runLength
			continue
		}

		numGroups := runLength
		packedLen := numGroups * groupWidth
		if len(src) < packedLen {
			return dst, fmt.Errorf("levels: decoding bit-packed run: %w", io.ErrUnexpectedEOF)
		}
		packed := src[:packedLen]
		src = src[packedLen:]

		for v := 0; v < numGroups*8 && decoded < count; v++ {
			dst = append(dst, int32(unpackBits(packed, v*bitWidth, bitWidth)))
			decoded++
		}
	}

	return dst, nil
}

func runEnd(levels []int32, i int) int {
	j := i + 1
	for j < len(levels) && levels[j] == levels[i] {
		j++
	}
	return j
}

func appendUvarint(dst []byte, u uint64) []byte {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], u)
	return append(dst, b[:n]...)
}

func appendValue(dst []byte, v int32, width int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(dst, b[:width]...)
}

func decodeValue(b []byte) int32 {
	var buf [4]byte
	copy(buf[:], b)
	return int32(binary.LittleEndian.Uint32(buf[:]))
}

func packBits(dst []byte, bitOffset int, v uint32, bitWidth int) {
	for b := 0; b < bitWidth; b++ {
		if v&(1<<uint(b)) != 0 {
			bitutil.SetBit(dst, bitOffset+b, true)
		}
	}
}

func unpackBits(src []byte, bitOffset, bitWidth int) uint32 {
	var v uint32
	for b := 0; b < bitWidth; b++ {
		if bitutil.GetBit(src, bitOffset+b) {
			v |= 1 << uint(b)
		}
	}
	return v
}
