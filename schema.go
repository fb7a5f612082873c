package native

import "fmt"

// TypeID is the compact enumeration of logical data types a Field may
// carry. Per the design notes, the encoder/decoder branches on this tag
// rather than dispatching through per-type interfaces, keeping the
// per-value hot loops monomorphic.
type TypeID uint8

const (
	Null TypeID = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Binary
	LargeBinary
	Utf8
	LargeUtf8
	FixedSizeBinary
	List
	LargeList
	FixedSizeList
	Struct
)

func (id TypeID) String() string {
	switch id {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Binary:
		return "binary"
	case LargeBinary:
		return "large_binary"
	case Utf8:
		return "utf8"
	case LargeUtf8:
		return "large_utf8"
	case FixedSizeBinary:
		return "fixed_size_binary"
	case List:
		return "list"
	case LargeList:
		return "large_list"
	case FixedSizeList:
		return "fixed_size_list"
	case Struct:
		return "struct"
	default:
		return fmt.Sprintf("TypeID(%d)", uint8(id))
	}
}

// DataType describes the logical shape of a Field. It is a flat, tagged
// struct rather than one Go type per logical type: List/LargeList/
// FixedSizeList set Elem (and FixedSizeListLen for the fixed-size variant),
// FixedSizeBinary sets FixedSizeBinaryLen, and Struct sets Fields. All
// other TypeIDs need no payload.
type DataType struct {
	ID                  TypeID
	Elem                *Field
	FixedSizeListLen    int
	FixedSizeBinaryLen  int
	Fields              []Field
}

func NullType() DataType    { return DataType{ID: Null} }
func BoolType() DataType    { return DataType{ID: Bool} }
func Int8Type() DataType    { return DataType{ID: Int8} }
func Int16Type() DataType   { return DataType{ID: Int16} }
func Int32Type() DataType   { return DataType{ID: Int32} }
func Int64Type() DataType   { return DataType{ID: Int64} }
func Uint8Type() DataType   { return DataType{ID: Uint8} }
func Uint16Type() DataType  { return DataType{ID: Uint16} }
func Uint32Type() DataType  { return DataType{ID: Uint32} }
func Uint64Type() DataType  { return DataType{ID: Uint64} }
func Float32Type() DataType { return DataType{ID: Float32} }
func Float64Type() DataType { return DataType{ID: Float64} }
func BinaryType() DataType      { return DataType{ID: Binary} }
func LargeBinaryType() DataType { return DataType{ID: LargeBinary} }
func Utf8Type() DataType        { return DataType{ID: Utf8} }
func LargeUtf8Type() DataType   { return DataType{ID: LargeUtf8} }

func FixedSizeBinaryType(n int) DataType {
	return DataType{ID: FixedSizeBinary, FixedSizeBinaryLen: n}
}

func ListOf(elem Field) DataType      { return DataType{ID: List, Elem: &elem} }
func LargeListOf(elem Field) DataType { return DataType{ID: LargeList, Elem: &elem} }

func FixedSizeListOf(elem Field, n int) DataType {
	return DataType{ID: FixedSizeList, Elem: &elem, FixedSizeListLen: n}
}

func StructOf(fields ...Field) DataType {
	return DataType{ID: Struct, Fields: fields}
}

// IsPrimitive reports whether t has no list/struct structure of its own,
// i.e. a Field of this type contributes exactly one leaf column.
func IsPrimitive(t DataType) bool {
	switch t.ID {
	case List, LargeList, FixedSizeList, Struct:
		return false
	default:
		return true
	}
}

// Field is a named, possibly-nullable node in a Schema.
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
}

// Schema is an ordered sequence of top-level fields.
type Schema struct {
	Fields []Field
}

// NLeaves returns n_leaves(field): the number of leaf (primitive) columns
// produced by depth-first flattening of field.
func NLeaves(f Field) int {
	switch f.Type.ID {
	case Struct:
		n := 0
		for _, child := range f.Type.Fields {
			n += NLeaves(child)
		}
		return n
	case List, LargeList, FixedSizeList:
		return NLeaves(*f.Type.Elem)
	default:
		return 1
	}
}
