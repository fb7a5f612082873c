package native_test

import (
	"fmt"
	"testing"

	"github.com/colnative/native"
	"github.com/colnative/native/array"
	"github.com/colnative/native/internal/testutil"
)

// TestWriteReadDiskFile exercises the writer and reader against a real
// on-disk file (rather than an in-memory buffer), the path an application
// actually uses, and renders a unified diff of the row dump on mismatch
// instead of a raw slice comparison.
func TestWriteReadDiskFile(t *testing.T) {
	schema := &native.Schema{Fields: []native.Field{
		{Name: "n", Type: native.Int32Type()},
	}}

	values := []int32{7, 14, 21, 28, 35, 42}
	col := array.NewPrimitiveArray(values, nil)

	f := testutil.TempFile(t)
	w := native.NewWriter(f, schema)
	if err := w.Write([]array.Array{col}); err != nil {
		t.Fatal(err)
	}
	size, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	_, chunks, err := native.ReadFile(f, size)
	if err != nil {
		t.Fatal(err)
	}

	var got []int32
	for _, chunk := range chunks {
		arr, ok := chunk.Columns[0].(*array.PrimitiveArray[int32])
		if !ok {
			t.Fatalf("expected *array.PrimitiveArray[int32], got %T", chunk.Columns[0])
		}
		got = append(got, arr.Values...)
	}

	wantDump := dumpInt32(values)
	gotDump := dumpInt32(got)
	if wantDump != gotDump {
		t.Fatalf("row mismatch:\n%s", testutil.Diff("n.txt", wantDump, gotDump))
	}
}

func dumpInt32(values []int32) string {
	s := ""
	for _, v := range values {
		s += fmt.Sprintf("%d\n", v)
	}
	return s
}
