package native

import (
	"reflect"
	"testing"

	"github.com/colnative/native/array"
)

// TestShredRepetitionLevels traces a doubly-nested list, List<List<int32>>,
// through a single row [[1,2],[3]] and checks the repetition levels emitted
// against the Dremel convention: the first value of a row is always 0, and
// every later value's repetition level is the depth of the shallowest
// repeated ancestor that restarted since the previous value.
func TestShredRepetitionLevels(t *testing.T) {
	leafField := Field{Name: "value", Type: Int32Type()}
	innerField := Field{Name: "inner", Type: ListOf(leafField)}
	outerField := Field{Name: "outer", Type: ListOf(innerField)}

	innerValues := array.NewPrimitiveArray([]int32{1, 2, 3}, nil)
	innerList := &array.ListArray{Offsets: []int32{0, 2, 3}, Values: innerValues}
	outerList := &array.ListArray{Offsets: []int32{0, 2}, Values: innerList}

	chunks, err := ShredField(outerField, outerList)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 leaf chunk, got %d", len(chunks))
	}

	wantRep := []int32{0, 2, 1}
	if !reflect.DeepEqual(chunks[0].RepLevels, wantRep) {
		t.Fatalf("repetition levels: got %v, want %v", chunks[0].RepLevels, wantRep)
	}

	wantDef := []int32{2, 2, 2}
	if !reflect.DeepEqual(chunks[0].DefLevels, wantDef) {
		t.Fatalf("definition levels: got %v, want %v", chunks[0].DefLevels, wantDef)
	}
}

// TestShredAssembleNestedList round-trips the same List<List<int32>> shape
// through AssembleField, using the shredded levels directly as cursors
// (bypassing page framing) to isolate the recursive shred/assemble pair.
func TestShredAssembleNestedList(t *testing.T) {
	leafField := Field{Name: "value", Type: Int32Type()}
	innerField := Field{Name: "inner", Type: ListOf(leafField)}
	outerField := Field{Name: "outer", Type: ListOf(innerField)}

	innerValues := array.NewPrimitiveArray([]int32{1, 2, 3, 4}, nil)
	innerList := &array.ListArray{Offsets: []int32{0, 2, 3, 4}, Values: innerValues}
	outerList := &array.ListArray{Offsets: []int32{0, 2, 3}, Values: innerList}

	chunks, err := ShredField(outerField, outerList)
	if err != nil {
		t.Fatal(err)
	}

	leaves := LeafDescriptors(outerField)
	cursors := make([]*leafCursor, len(leaves))
	for i, l := range leaves {
		page := &DecodedPage{
			NumRows:   outerList.Len(),
			Values:    chunks[i].Values,
			DefLevels: chunks[i].DefLevels,
			RepLevels: chunks[i].RepLevels,
		}
		cursors[i] = newLeafCursor(l, page)
	}

	result, err := AssembleField(outerField, cursors, outerList.Len())
	if err != nil {
		t.Fatal(err)
	}

	got, ok := result.(*array.ListArray)
	if !ok {
		t.Fatalf("expected *array.ListArray, got %T", result)
	}
	if !reflect.DeepEqual(got.Offsets, outerList.Offsets) {
		t.Fatalf("outer offsets: got %v, want %v", got.Offsets, outerList.Offsets)
	}
	gotInner, ok := got.Values.(*array.ListArray)
	if !ok {
		t.Fatalf("expected inner *array.ListArray, got %T", got.Values)
	}
	if !reflect.DeepEqual(gotInner.Offsets, innerList.Offsets) {
		t.Fatalf("inner offsets: got %v, want %v", gotInner.Offsets, innerList.Offsets)
	}
	gotValues, ok := gotInner.Values.(*array.PrimitiveArray[int32])
	if !ok {
		t.Fatalf("expected leaf *array.PrimitiveArray[int32], got %T", gotInner.Values)
	}
	if !reflect.DeepEqual(gotValues.Values, innerValues.Values) {
		t.Fatalf("leaf values: got %v, want %v", gotValues.Values, innerValues.Values)
	}
}

// TestShredAssembleOptionalStruct exercises a nullable struct field with an
// optional int32 child, checking that a null struct row consumes exactly
// one level entry per leaf (emitAbsent) and assembles back to a null row
// rather than a struct holding a null child.
func TestShredAssembleOptionalStruct(t *testing.T) {
	child := Field{Name: "a", Type: Int32Type(), Nullable: true}
	field := Field{Name: "s", Type: StructOf(child), Nullable: true}

	validity := array.NewBitmap([]bool{true, false, true})
	// The child array is row-aligned with the struct (one entry per
	// struct row, Arrow-style): row 1's entry is never read since the
	// struct itself is absent there, and row 2's is null in its own right.
	childValidity := array.NewBitmap([]bool{true, false, false})
	childValues := array.NewPrimitiveArray([]int32{10, 0, 0}, childValidity)
	structArr := &array.StructArray{Fields: []array.Array{childValues}, Length: 3, Validity: validity}

	chunks, err := ShredField(field, structArr)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 leaf chunk, got %d", len(chunks))
	}

	// row0: struct present, child present -> def=2
	// row1: struct absent -> def=0
	// row2: struct present, child absent -> def=1
	wantDef := []int32{2, 0, 1}
	if !reflect.DeepEqual(chunks[0].DefLevels, wantDef) {
		t.Fatalf("definition levels: got %v, want %v", chunks[0].DefLevels, wantDef)
	}

	leaves := LeafDescriptors(field)
	page := &DecodedPage{NumRows: 3, Values: chunks[0].Values, DefLevels: chunks[0].DefLevels}
	cursor := newLeafCursor(leaves[0], page)

	result, err := AssembleField(field, []*leafCursor{cursor}, 3)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := result.(*array.StructArray)
	if !ok {
		t.Fatalf("expected *array.StructArray, got %T", result)
	}
	if got.Validity.IsValid(1) {
		t.Fatalf("row 1 should be null")
	}
	if !got.Validity.IsValid(0) || !got.Validity.IsValid(2) {
		t.Fatalf("rows 0 and 2 should be present")
	}
	gotChild, ok := got.Fields[0].(*array.PrimitiveArray[int32])
	if !ok {
		t.Fatalf("expected child *array.PrimitiveArray[int32], got %T", got.Fields[0])
	}
	if gotChild.Validity.IsValid(0) != true || gotChild.Validity.IsValid(2) != false {
		t.Fatalf("child validity mismatch: %v", gotChild.Validity.Bools())
	}
}

// TestShredAssembleFixedSizeListUnderNullStruct checks that a required
// FixedSizeList nested beneath a nullable struct pads N placeholder values
// per absent row rather than leaving the backing slice misaligned.
func TestShredAssembleFixedSizeListUnderNullStruct(t *testing.T) {
	elem := Field{Name: "v", Type: Int32Type()}
	fsl := Field{Name: "xy", Type: FixedSizeListOf(elem, 2)}
	field := Field{Name: "point", Type: StructOf(fsl), Nullable: true}

	validity := array.NewBitmap([]bool{true, false, true})
	// Row-aligned with the struct: row 1's two slots are never read (the
	// struct itself is absent there) but must still exist so row 2's
	// slice (index 2*N:3*N) lands in the right place.
	fslValues := array.NewPrimitiveArray([]int32{1, 2, 0, 0, 3, 4}, nil)
	fslArr := &array.FixedSizeListArray{N: 2, Length: 3, Values: fslValues}
	structArr := &array.StructArray{Fields: []array.Array{fslArr}, Length: 3, Validity: validity}

	chunks, err := ShredField(field, structArr)
	if err != nil {
		t.Fatal(err)
	}

	leaves := LeafDescriptors(field)
	page := &DecodedPage{NumRows: 3, Values: chunks[0].Values, DefLevels: chunks[0].DefLevels}
	cursor := newLeafCursor(leaves[0], page)

	result, err := AssembleField(field, []*leafCursor{cursor}, 3)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := result.(*array.StructArray)
	if !ok {
		t.Fatalf("expected *array.StructArray, got %T", result)
	}
	gotFSL, ok := got.Fields[0].(*array.FixedSizeListArray)
	if !ok {
		t.Fatalf("expected *array.FixedSizeListArray, got %T", got.Fields[0])
	}
	if gotFSL.Length != 3 {
		t.Fatalf("expected 3 fixed-size-list rows (one per struct row), got %d", gotFSL.Length)
	}
	gotValues, ok := gotFSL.Values.(*array.PrimitiveArray[int32])
	if !ok {
		t.Fatalf("expected leaf *array.PrimitiveArray[int32], got %T", gotFSL.Values)
	}
	if len(gotValues.Values) != 6 {
		t.Fatalf("expected 6 padded leaf values (3 rows * 2), got %d", len(gotValues.Values))
	}
	// Row 0 and row 2 carry real data; row 1's content is unspecified
	// padding (the struct itself is null there), so only check the defined
	// rows.
	if gotValues.Values[0] != 1 || gotValues.Values[1] != 2 {
		t.Fatalf("row 0 values: got %v", gotValues.Values[0:2])
	}
	if gotValues.Values[4] != 3 || gotValues.Values[5] != 4 {
		t.Fatalf("row 2 values: got %v", gotValues.Values[4:6])
	}
}
