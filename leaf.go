package native

import "github.com/colnative/native/array"

// leafBuilder accumulates the fully-defined (non-null) values seen for one
// leaf column while shredding, in leaf-value order. Nulls are never
// appended here: their positions are fully recoverable from the
// definition-level stream on read, so the value stream only ever holds
// entries where def == MaxDefinitionLevel.
type leafBuilder struct {
	typ TypeID

	i8  []int8
	i16 []int16
	i32 []int32
	i64 []int64
	u8  []uint8
	u16 []uint16
	u32 []uint32
	u64 []uint64
	f32 []float32
	f64 []float64

	bools []bool
	bin   [][]byte
}

func newLeafBuilder(typ TypeID) *leafBuilder { return &leafBuilder{typ: typ} }

func (b *leafBuilder) appendValid(arr array.Array, idx int) {
	switch b.typ {
	case Int8:
		b.i8 = append(b.i8, arr.(*array.PrimitiveArray[int8]).Values[idx])
	case Int16:
		b.i16 = append(b.i16, arr.(*array.PrimitiveArray[int16]).Values[idx])
	case Int32:
		b.i32 = append(b.i32, arr.(*array.PrimitiveArray[int32]).Values[idx])
	case Int64:
		b.i64 = append(b.i64, arr.(*array.PrimitiveArray[int64]).Values[idx])
	case Uint8:
		b.u8 = append(b.u8, arr.(*array.PrimitiveArray[uint8]).Values[idx])
	case Uint16:
		b.u16 = append(b.u16, arr.(*array.PrimitiveArray[uint16]).Values[idx])
	case Uint32:
		b.u32 = append(b.u32, arr.(*array.PrimitiveArray[uint32]).Values[idx])
	case Uint64:
		b.u64 = append(b.u64, arr.(*array.PrimitiveArray[uint64]).Values[idx])
	case Float32:
		b.f32 = append(b.f32, arr.(*array.PrimitiveArray[float32]).Values[idx])
	case Float64:
		b.f64 = append(b.f64, arr.(*array.PrimitiveArray[float64]).Values[idx])
	case Bool:
		ba := arr.(*array.BoolArray)
		b.bools = append(b.bools, ba.Values.IsValid(idx))
	case Binary, Utf8:
		ba := arr.(*array.BinaryArray)
		v := ba.ValueAt(idx)
		cp := make([]byte, len(v))
		copy(cp, v)
		b.bin = append(b.bin, cp)
	case LargeBinary, LargeUtf8:
		la := arr.(*array.LargeBinaryArray)
		v := la.ValueAt(idx)
		cp := make([]byte, len(v))
		copy(cp, v)
		b.bin = append(b.bin, cp)
	case Null:
		// no payload: NullArray carries no values at all.
	case FixedSizeBinary:
		// reserved by the format but unimplemented, per spec.
	}
}

// appendZero pushes the type's zero value, used only to pad a required
// (non-optional) leaf beneath an ancestor that turned out null or empty:
// the ancestor's absence already consumed the leaf's one level-stream
// entry, so the value slot here has no principled content — matching the
// columnar convention that a null parent's children carry unspecified data.
func (b *leafBuilder) appendZero() {
	switch b.typ {
	case Int8:
		b.i8 = append(b.i8, 0)
	case Int16:
		b.i16 = append(b.i16, 0)
	case Int32:
		b.i32 = append(b.i32, 0)
	case Int64:
		b.i64 = append(b.i64, 0)
	case Uint8:
		b.u8 = append(b.u8, 0)
	case Uint16:
		b.u16 = append(b.u16, 0)
	case Uint32:
		b.u32 = append(b.u32, 0)
	case Uint64:
		b.u64 = append(b.u64, 0)
	case Float32:
		b.f32 = append(b.f32, 0)
	case Float64:
		b.f64 = append(b.f64, 0)
	case Bool:
		b.bools = append(b.bools, false)
	case Binary, Utf8, LargeBinary, LargeUtf8:
		b.bin = append(b.bin, nil)
	case Null, FixedSizeBinary:
		// no payload to pad.
	}
}

func (b *leafBuilder) build() array.Array {
	switch b.typ {
	case Int8:
		return array.NewPrimitiveArray(b.i8, nil)
	case Int16:
		return array.NewPrimitiveArray(b.i16, nil)
	case Int32:
		return array.NewPrimitiveArray(b.i32, nil)
	case Int64:
		return array.NewPrimitiveArray(b.i64, nil)
	case Uint8:
		return array.NewPrimitiveArray(b.u8, nil)
	case Uint16:
		return array.NewPrimitiveArray(b.u16, nil)
	case Uint32:
		return array.NewPrimitiveArray(b.u32, nil)
	case Uint64:
		return array.NewPrimitiveArray(b.u64, nil)
	case Float32:
		return array.NewPrimitiveArray(b.f32, nil)
	case Float64:
		return array.NewPrimitiveArray(b.f64, nil)
	case Bool:
		return array.NewBoolArray(b.bools, nil)
	case Binary:
		return array.NewBinaryArray(b.bin, nil)
	case Utf8:
		strs := make([]string, len(b.bin))
		for i, v := range b.bin {
			strs[i] = string(v)
		}
		return array.NewUtf8Array(strs, nil)
	case LargeBinary:
		return array.NewLargeBinaryArray(b.bin, nil)
	case LargeUtf8:
		strs := make([]string, len(b.bin))
		for i, v := range b.bin {
			strs[i] = string(v)
		}
		return array.NewLargeUtf8Array(strs, nil)
	case Null:
		return &array.NullArray{N: 0}
	default:
		return nil
	}
}

// leafValidity reports whether arr's entry at idx is present, for any
// concrete leaf array type. A non-nullable array (nil Validity) is always
// valid.
func leafValidity(arr array.Array, idx int) bool {
	switch a := arr.(type) {
	case *array.PrimitiveArray[int8]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[int16]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[int32]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[int64]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[uint8]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[uint16]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[uint32]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[uint64]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[float32]:
		return a.Validity.IsValid(idx)
	case *array.PrimitiveArray[float64]:
		return a.Validity.IsValid(idx)
	case *array.BoolArray:
		return a.Validity.IsValid(idx)
	case *array.BinaryArray:
		return a.Validity.IsValid(idx)
	case *array.LargeBinaryArray:
		return a.Validity.IsValid(idx)
	case *array.NullArray:
		return false
	default:
		return true
	}
}
