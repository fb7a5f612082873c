package native

import "github.com/colnative/native/array"

// nodeBuilder accumulates one schema node's worth of rows while
// reassembling a field from its leaf columns. Each concrete type below
// mirrors the array.Array counterpart it eventually builds.
type nodeBuilder interface {
	build() array.Array
}

type structBuilder struct {
	children []nodeBuilder
	validity []bool
	optional bool
}

func newStructBuilder(t DataType, optional bool) *structBuilder {
	children := make([]nodeBuilder, len(t.Fields))
	for i, f := range t.Fields {
		children[i] = newNodeBuilder(f.Type, f.Nullable)
	}
	return &structBuilder{children: children, optional: optional}
}

// appendValid and appendNull record one row's presence, advancing the
// struct's own row count regardless of whether b itself is optional —
// Length always comes from this count, and Validity is only materialized
// when optional.
func (b *structBuilder) appendValid() {
	b.validity = append(b.validity, true)
}

func (b *structBuilder) appendNull() {
	b.validity = append(b.validity, false)
}

func (b *structBuilder) build() array.Array {
	fields := make([]array.Array, len(b.children))
	for i, c := range b.children {
		fields[i] = c.build()
	}
	var validity *array.Bitmap
	if b.optional {
		validity = array.NewBitmap(b.validity)
	}
	return &array.StructArray{Fields: fields, Length: len(b.validity), Validity: validity}
}

type listBuilder struct {
	elem     nodeBuilder
	offsets  []int32
	validity []bool
	optional bool
	large    bool
	largeOff []int64
}

func newListBuilder(t DataType, optional bool) *listBuilder {
	large := t.ID == LargeList
	lb := &listBuilder{elem: newNodeBuilder(t.Elem.Type, t.Elem.Nullable), optional: optional, large: large}
	if large {
		lb.largeOff = []int64{0}
	} else {
		lb.offsets = []int32{0}
	}
	return lb
}

// appendLen records one row with count elements (count == 0 for an empty
// or absent list; the elements themselves are appended by the caller
// directly into lb.elem before or after this call for non-absent rows).
func (b *listBuilder) appendLen(count int, valid bool) {
	if b.large {
		b.largeOff = append(b.largeOff, b.largeOff[len(b.largeOff)-1]+int64(count))
	} else {
		b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1]+int32(count))
	}
	b.validity = append(b.validity, valid)
}

func (b *listBuilder) build() array.Array {
	var validity *array.Bitmap
	if b.optional {
		validity = array.NewBitmap(b.validity)
	}
	if b.large {
		return &array.LargeListArray{Offsets: b.largeOff, Values: b.elem.build(), Validity: validity}
	}
	return &array.ListArray{Offsets: b.offsets, Values: b.elem.build(), Validity: validity}
}

type fixedSizeListBuilder struct {
	n        int
	elem     nodeBuilder
	validity []bool
	optional bool
	rows     int
}

func newFixedSizeListBuilder(t DataType, optional bool) *fixedSizeListBuilder {
	return &fixedSizeListBuilder{n: t.FixedSizeListLen, elem: newNodeBuilder(t.Elem.Type, t.Elem.Nullable), optional: optional}
}

func (b *fixedSizeListBuilder) appendRow(valid bool) {
	b.validity = append(b.validity, valid)
	b.rows++
}

func (b *fixedSizeListBuilder) build() array.Array {
	var validity *array.Bitmap
	if b.optional {
		validity = array.NewBitmap(b.validity)
	}
	return &array.FixedSizeListArray{N: b.n, Length: b.rows, Values: b.elem.build(), Validity: validity}
}

// primitiveBuilder accumulates a leaf's values plus a row-level validity
// stream, reusing leafBuilder for the value payload.
type primitiveBuilder struct {
	typ      TypeID
	lb       *leafBuilder
	validity []bool
	optional bool
}

func newPrimitiveBuilder(typ TypeID, optional bool) *primitiveBuilder {
	return &primitiveBuilder{typ: typ, lb: newLeafBuilder(typ), optional: optional}
}

func (b *primitiveBuilder) appendValid(arr array.Array, idx int) {
	b.lb.appendValid(arr, idx)
	b.validity = append(b.validity, true)
}

func (b *primitiveBuilder) appendNull() {
	b.validity = append(b.validity, false)
}

// appendAbsent pads one row's worth of content for a leaf sitting beneath
// an ancestor that was itself null or empty: no cursor entry carries a
// value for this position, so an optional leaf simply records another
// null, while a required leaf (non-optional, only reachable here because
// some strict ancestor is nullable) gets a zero-value placeholder so its
// backing slice stays aligned with every sibling's row count.
func (b *primitiveBuilder) appendAbsent() {
	if b.optional {
		b.appendNull()
		return
	}
	b.lb.appendZero()
}

func (b *primitiveBuilder) build() array.Array {
	values := b.lb.build()
	if !b.optional {
		return values
	}
	return interleaveValidity(b.typ, values, b.validity)
}

// interleaveValidity rewraps a freshly-built leaf array — which holds only
// the entries where valid[i] was true, in row order — into a full-length
// array with one slot per row, placing each defined value at its true row
// position and a zero value at every null position.
func interleaveValidity(typ TypeID, values array.Array, valid []bool) array.Array {
	validity := array.NewBitmap(valid)
	n := len(valid)
	switch a := values.(type) {
	case *array.PrimitiveArray[int8]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[int16]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[int32]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[int64]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[uint8]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[uint16]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[uint32]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[uint64]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[float32]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.PrimitiveArray[float64]:
		return array.NewPrimitiveArray(interleave(a.Values, valid, n), validity)
	case *array.BoolArray:
		bools := interleave(a.Values.Bools(), valid, n)
		return array.NewBoolArray(bools, validity)
	case *array.BinaryArray:
		vals := interleaveBytes(a, valid, n)
		if typ == Utf8 {
			strs := make([]string, n)
			for i, v := range vals {
				strs[i] = string(v)
			}
			return array.NewUtf8Array(strs, validity)
		}
		return array.NewBinaryArray(vals, validity)
	case *array.LargeBinaryArray:
		vals := interleaveLargeBytes(a, valid, n)
		if typ == LargeUtf8 {
			strs := make([]string, n)
			for i, v := range vals {
				strs[i] = string(v)
			}
			return array.NewLargeUtf8Array(strs, validity)
		}
		return array.NewLargeBinaryArray(vals, validity)
	default:
		return values
	}
}

// interleave places the k values of defined (one per valid[i]==true entry,
// in order) at their true row positions among n rows, leaving the zero
// value of T at every null position.
func interleave[T any](defined []T, valid []bool, n int) []T {
	out := make([]T, n)
	k := 0
	for i := 0; i < n; i++ {
		if valid[i] {
			out[i] = defined[k]
			k++
		}
	}
	return out
}

func interleaveBytes(a *array.BinaryArray, valid []bool, n int) [][]byte {
	out := make([][]byte, n)
	k := 0
	for i := 0; i < n; i++ {
		if valid[i] {
			out[i] = a.ValueAt(k)
			k++
		} else {
			out[i] = nil
		}
	}
	return out
}

func interleaveLargeBytes(a *array.LargeBinaryArray, valid []bool, n int) [][]byte {
	out := make([][]byte, n)
	k := 0
	for i := 0; i < n; i++ {
		if valid[i] {
			out[i] = a.ValueAt(k)
			k++
		} else {
			out[i] = nil
		}
	}
	return out
}

func newNodeBuilder(t DataType, optional bool) nodeBuilder {
	switch t.ID {
	case Struct:
		return newStructBuilder(t, optional)
	case List, LargeList:
		return newListBuilder(t, optional)
	case FixedSizeList:
		return newFixedSizeListBuilder(t, optional)
	default:
		return newPrimitiveBuilder(t.ID, optional)
	}
}
