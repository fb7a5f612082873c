package array

// BinaryArray holds variable-length byte values addressed by an offsets
// buffer of length Len()+1 (offsets[i]:offsets[i+1] is the i-th value). It
// backs both the Binary and Utf8 logical types, which share an identical
// physical representation.
type BinaryArray struct {
	Offsets  []int32
	Values   []byte
	Validity *Bitmap
}

func NewBinaryArray(values [][]byte, validity *Bitmap) *BinaryArray {
	offsets := make([]int32, len(values)+1)
	var data []byte
	for i, v := range values {
		data = append(data, v...)
		offsets[i+1] = int32(len(data))
	}
	return &BinaryArray{Offsets: offsets, Values: data, Validity: validity}
}

// NewUtf8Array is a convenience constructor with the same physical layout
// as NewBinaryArray; the Utf8-ness of the data is a schema-level tag only.
func NewUtf8Array(values []string, validity *Bitmap) *BinaryArray {
	bs := make([][]byte, len(values))
	for i, v := range values {
		bs[i] = []byte(v)
	}
	return NewBinaryArray(bs, validity)
}

func (a *BinaryArray) Len() int { return len(a.Offsets) - 1 }

func (a *BinaryArray) ValueAt(i int) []byte {
	return a.Values[a.Offsets[i]:a.Offsets[i+1]]
}

// Slice returns the sub-range [offset, offset+length), rebasing the
// offsets buffer so the result starts at 0 — spec.md §4.3's "offset
// rebasing" rule.
func (a *BinaryArray) Slice(offset, length int) *BinaryArray {
	first := a.Offsets[offset]
	offsets := make([]int32, length+1)
	for i := 0; i <= length; i++ {
		offsets[i] = a.Offsets[offset+i] - first
	}
	values := make([]byte, offsets[length])
	copy(values, a.Values[first:a.Offsets[offset+length]])
	return &BinaryArray{Offsets: offsets, Values: values, Validity: a.Validity.Slice(offset, length)}
}

// LargeBinaryArray is the int64-offset counterpart of BinaryArray, backing
// LargeBinary and LargeUtf8.
type LargeBinaryArray struct {
	Offsets  []int64
	Values   []byte
	Validity *Bitmap
}

func NewLargeBinaryArray(values [][]byte, validity *Bitmap) *LargeBinaryArray {
	offsets := make([]int64, len(values)+1)
	var data []byte
	for i, v := range values {
		data = append(data, v...)
		offsets[i+1] = int64(len(data))
	}
	return &LargeBinaryArray{Offsets: offsets, Values: data, Validity: validity}
}

func NewLargeUtf8Array(values []string, validity *Bitmap) *LargeBinaryArray {
	bs := make([][]byte, len(values))
	for i, v := range values {
		bs[i] = []byte(v)
	}
	return NewLargeBinaryArray(bs, validity)
}

func (a *LargeBinaryArray) Len() int { return len(a.Offsets) - 1 }

func (a *LargeBinaryArray) ValueAt(i int) []byte {
	return a.Values[a.Offsets[i]:a.Offsets[i+1]]
}

func (a *LargeBinaryArray) Slice(offset, length int) *LargeBinaryArray {
	first := a.Offsets[offset]
	offsets := make([]int64, length+1)
	for i := 0; i <= length; i++ {
		offsets[i] = a.Offsets[offset+i] - first
	}
	values := make([]byte, offsets[length])
	copy(values, a.Values[first:a.Offsets[offset+length]])
	return &LargeBinaryArray{Offsets: offsets, Values: values, Validity: a.Validity.Slice(offset, length)}
}
