// Package array is a minimal stand-in for the in-memory columnar array
// library the file format is built around. The real array library (Arrow's
// primitive arrays, validity bitmaps, offset buffers, and nested-array
// constructors) is an external collaborator out of scope for this module;
// this package provides just enough of that surface — bitmaps, primitive
// slices, variable-length buffers, and list/struct containers — for the
// shredder, assembler, and tests to have concrete arrays to round-trip.
package array

import "github.com/colnative/native/internal/bitutil"

// Array is implemented by every concrete array kind below.
type Array interface {
	// Len returns the number of logical elements (top-level rows for this
	// array) it holds.
	Len() int
}

// Bitmap is a LSB-first, byte-padded validity or boolean-values bitmap.
type Bitmap struct {
	Bits []byte
	Len  int
}

// NewBitmap builds a Bitmap from a slice of bools.
func NewBitmap(valid []bool) *Bitmap {
	return &Bitmap{Bits: bitutil.PackBools(valid), Len: len(valid)}
}

// IsValid reports whether bit i is set. A nil bitmap reports every element
// as valid (there is no validity buffer because the array is known
// non-nullable).
func (b *Bitmap) IsValid(i int) bool {
	if b == nil {
		return true
	}
	return bitutil.GetBit(b.Bits, i)
}

// Slice returns the sub-range [offset, offset+length) of the bitmap,
// rebased so the returned bitmap's bit 0 corresponds to offset.
func (b *Bitmap) Slice(offset, length int) *Bitmap {
	if b == nil {
		return nil
	}
	valid := make([]bool, length)
	for i := range valid {
		valid[i] = b.IsValid(offset + i)
	}
	return NewBitmap(valid)
}

func (b *Bitmap) Bools() []bool {
	if b == nil {
		return nil
	}
	return bitutil.UnpackBools(b.Bits, b.Len)
}
