package native

import (
	"bytes"
	"testing"

	"github.com/colnative/native/array"
	"github.com/colnative/native/compress"
	_ "github.com/colnative/native/compress/lz4"
)

// TestWriteReadFileRoundTrip writes a small, multi-page file covering a
// flat primitive, an optional primitive, and a list-of-strings field, then
// reads it back end to end through ReadFile and checks every value and
// null slot survived, concatenated back across page boundaries.
func TestWriteReadFileRoundTrip(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "id", Type: Int32Type()},
		{Name: "name", Type: Utf8Type(), Nullable: true},
		{Name: "tags", Type: ListOf(Field{Name: "tag", Type: Utf8Type()})},
	}}

	idValues := []int32{1, 2, 3, 4, 5}
	idCol := array.NewPrimitiveArray(idValues, nil)

	nameValidity := []bool{true, false, true, true, false}
	nameValues := []string{"aa", "", "cc", "dd", ""}
	nameCol := array.NewUtf8Array(nameValues, array.NewBitmap(nameValidity))

	tagValues := array.NewUtf8Array([]string{"x", "y", "z", "w"}, nil)
	tagOffsets := []int32{0, 2, 2, 3, 4, 4} // row lens: 2,0,1,1,0
	tagsCol := &array.ListArray{Offsets: tagOffsets, Values: tagValues}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema, WithMaxPageSize(2), WithCompression(mustCodec(compress.None)))
	if err := w.Write([]array.Array{idCol, nameCol, tagsCol}); err != nil {
		t.Fatal(err)
	}
	size, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(buf.Bytes())
	schemaOut, chunks, err := ReadFile(r, size)
	if err != nil {
		t.Fatal(err)
	}
	if len(schemaOut.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(schemaOut.Fields))
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple page-aligned chunks with max page size 2, got %d", len(chunks))
	}

	var gotIDs []int32
	var gotNames []string
	var gotNameValid []bool
	var gotTagRows [][]string

	for _, chunk := range chunks {
		ids, ok := chunk.Columns[0].(*array.PrimitiveArray[int32])
		if !ok {
			t.Fatalf("column 0: expected *array.PrimitiveArray[int32], got %T", chunk.Columns[0])
		}
		gotIDs = append(gotIDs, ids.Values...)

		names, ok := chunk.Columns[1].(*array.BinaryArray)
		if !ok {
			t.Fatalf("column 1: expected *array.BinaryArray, got %T", chunk.Columns[1])
		}
		for i := 0; i < names.Len(); i++ {
			gotNameValid = append(gotNameValid, names.Validity.IsValid(i))
			if names.Validity.IsValid(i) {
				gotNames = append(gotNames, string(names.ValueAt(i)))
			} else {
				gotNames = append(gotNames, "")
			}
		}

		tags, ok := chunk.Columns[2].(*array.ListArray)
		if !ok {
			t.Fatalf("column 2: expected *array.ListArray, got %T", chunk.Columns[2])
		}
		tagValuesOut, ok := tags.Values.(*array.BinaryArray)
		if !ok {
			t.Fatalf("list values: expected *array.BinaryArray, got %T", tags.Values)
		}
		for row := 0; row < tags.Len(); row++ {
			start, end := tags.Offsets[row], tags.Offsets[row+1]
			var vals []string
			for i := start; i < end; i++ {
				vals = append(vals, string(tagValuesOut.ValueAt(int(i))))
			}
			gotTagRows = append(gotTagRows, vals)
		}
	}

	if !equalInt32(gotIDs, idValues) {
		t.Fatalf("ids: got %v, want %v", gotIDs, idValues)
	}
	if !equalBool(gotNameValid, nameValidity) {
		t.Fatalf("name validity: got %v, want %v", gotNameValid, nameValidity)
	}
	for i, valid := range nameValidity {
		if valid && gotNames[i] != nameValues[i] {
			t.Fatalf("name[%d]: got %q, want %q", i, gotNames[i], nameValues[i])
		}
	}

	wantTagRows := [][]string{{"x", "y"}, nil, {"z"}, {"w"}, nil}
	if len(gotTagRows) != len(wantTagRows) {
		t.Fatalf("tag rows: got %d rows, want %d", len(gotTagRows), len(wantTagRows))
	}
	for i := range wantTagRows {
		if !equalStrings(gotTagRows[i], wantTagRows[i]) {
			t.Fatalf("tags[%d]: got %v, want %v", i, gotTagRows[i], wantTagRows[i])
		}
	}
}

// TestWriteReadFileRoundTripCompressed exercises the same shape through a
// real compression codec rather than None, checking the compressed-block
// framing's size invariant round-trips along with the data.
func TestWriteReadFileRoundTripCompressed(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "v", Type: Int64Type()},
	}}
	values := make([]int64, 500)
	for i := range values {
		values[i] = int64(i * i)
	}
	col := array.NewPrimitiveArray(values, nil)

	codec, err := compress.Lookup(compress.LZ4)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema, WithCompression(codec), WithMaxPageSize(64))
	if err := w.Write([]array.Array{col}); err != nil {
		t.Fatal(err)
	}
	size, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(buf.Bytes())
	_, chunks, err := ReadFile(r, size)
	if err != nil {
		t.Fatal(err)
	}

	var got []int64
	for _, chunk := range chunks {
		arr, ok := chunk.Columns[0].(*array.PrimitiveArray[int64])
		if !ok {
			t.Fatalf("expected *array.PrimitiveArray[int64], got %T", chunk.Columns[0])
		}
		got = append(got, arr.Values...)
	}
	if !equalInt64(got, values) {
		t.Fatalf("values round-trip mismatch: got %d entries, want %d", len(got), len(values))
	}
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInt64(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalBool(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
