package native

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/colnative/native/array"
	"github.com/colnative/native/compress"
	_ "github.com/colnative/native/compress/zstd"
)

// TestMixedNullDensityRoundTrip is the S5 scenario: 1000 rows across five
// Int32 columns at increasing null densities plus one LargeBinary column,
// written with ZSTD at a small page size, and checked value-for-value and
// null-for-null after a full round trip.
func TestMixedNullDensityRoundTrip(t *testing.T) {
	const rows = 1000
	densities := []float64{0.1, 0.2, 0.3, 0.4, 0.5}

	rng := rand.New(rand.NewSource(1))

	schema := &Schema{}
	var wantValues [][]int32
	var wantValid [][]bool
	for i, d := range densities {
		values := make([]int32, rows)
		valid := make([]bool, rows)
		for r := 0; r < rows; r++ {
			values[r] = int32(r * (i + 1))
			valid[r] = rng.Float64() >= d
		}
		schema.Fields = append(schema.Fields, Field{Name: intColName(i), Type: Int32Type(), Nullable: true})
		wantValues = append(wantValues, values)
		wantValid = append(wantValid, valid)
	}

	lbValid := make([]bool, rows)
	lbValues := make([][]byte, rows)
	for r := 0; r < rows; r++ {
		lbValid[r] = rng.Float64() >= 0.4
		if lbValid[r] {
			lbValues[r] = []byte{byte(r), byte(r >> 8), byte(r)}
		}
	}
	schema.Fields = append(schema.Fields, Field{Name: "blob", Type: LargeBinaryType(), Nullable: true})

	var columns []array.Array
	for i := range densities {
		columns = append(columns, array.NewPrimitiveArray(wantValues[i], array.NewBitmap(wantValid[i])))
	}
	columns = append(columns, array.NewLargeBinaryArray(lbValues, array.NewBitmap(lbValid)))

	codec, err := compress.Lookup(compress.Zstd)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema, WithCompression(codec), WithMaxPageSize(12))
	if err := w.Write(columns); err != nil {
		t.Fatal(err)
	}
	size, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	_, chunks, err := ReadFile(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		t.Fatal(err)
	}

	gotValues := make([][]int32, len(densities))
	gotValid := make([][]bool, len(densities))
	var gotLBValid []bool
	var gotLBValues [][]byte

	for _, chunk := range chunks {
		for i := range densities {
			col, ok := chunk.Columns[i].(*array.PrimitiveArray[int32])
			if !ok {
				t.Fatalf("column %d: expected *array.PrimitiveArray[int32], got %T", i, chunk.Columns[i])
			}
			for r := 0; r < col.Len(); r++ {
				gotValid[i] = append(gotValid[i], col.Validity.IsValid(r))
				gotValues[i] = append(gotValues[i], col.Values[r])
			}
		}
		lb, ok := chunk.Columns[len(densities)].(*array.LargeBinaryArray)
		if !ok {
			t.Fatalf("blob column: expected *array.LargeBinaryArray, got %T", chunk.Columns[len(densities)])
		}
		for r := 0; r < lb.Len(); r++ {
			valid := lb.Validity.IsValid(r)
			gotLBValid = append(gotLBValid, valid)
			if valid {
				gotLBValues = append(gotLBValues, lb.ValueAt(r))
			} else {
				gotLBValues = append(gotLBValues, nil)
			}
		}
	}

	for i := range densities {
		if len(gotValues[i]) != rows {
			t.Fatalf("column %d: got %d rows, want %d", i, len(gotValues[i]), rows)
		}
		for r := 0; r < rows; r++ {
			if gotValid[i][r] != wantValid[i][r] {
				t.Fatalf("column %d row %d: validity mismatch", i, r)
			}
			if wantValid[i][r] && gotValues[i][r] != wantValues[i][r] {
				t.Fatalf("column %d row %d: got %d, want %d", i, r, gotValues[i][r], wantValues[i][r])
			}
		}
	}
	if len(gotLBValid) != rows {
		t.Fatalf("blob column: got %d rows, want %d", len(gotLBValid), rows)
	}
	for r := 0; r < rows; r++ {
		if gotLBValid[r] != lbValid[r] {
			t.Fatalf("blob row %d: validity mismatch", r)
		}
		if lbValid[r] && !bytes.Equal(gotLBValues[r], lbValues[r]) {
			t.Fatalf("blob row %d: got %v, want %v", r, gotLBValues[r], lbValues[r])
		}
	}
}

func intColName(i int) string {
	return string(rune('a' + i))
}

// TestPageSkip is the S6 scenario: 2000 non-null rows across five Int32
// columns at a small page size, read by skipping page 0 on every column
// via Nth(1) and then pulling sequentially; the result must equal the
// original array with page 0's rows removed.
func TestPageSkip(t *testing.T) {
	const rows = 2000
	const pageSize = 12

	schema := &Schema{}
	var wantValues [][]int32
	for i := 0; i < 5; i++ {
		values := make([]int32, rows)
		for r := range values {
			values[r] = int32(i*100000 + r)
		}
		schema.Fields = append(schema.Fields, Field{Name: intColName(i), Type: Int32Type()})
		wantValues = append(wantValues, values)
	}

	var columns []array.Array
	for _, v := range wantValues {
		columns = append(columns, array.NewPrimitiveArray(v, nil))
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema, WithMaxPageSize(pageSize))
	if err := w.Write(columns); err != nil {
		t.Fatal(err)
	}
	size, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	metas, _, err := ReadMeta(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(buf.Bytes())
	for col := 0; col < 5; col++ {
		leaves := LeafDescriptors(Field{Name: intColName(col), Type: Int32Type()})
		it := OpenColumn(r, leaves[0], metas[col])

		// Skip page 0 via Nth(1): the first page written has pageSize rows.
		page, err := it.Nth(1)
		if err != nil {
			t.Fatalf("column %d: Nth(1): %v", col, err)
		}
		var got []int32
		got = append(got, page.Values.(*array.PrimitiveArray[int32]).Values...)
		for it.HasNext() {
			page, err := it.Next()
			if err != nil {
				t.Fatalf("column %d: Next: %v", col, err)
			}
			got = append(got, page.Values.(*array.PrimitiveArray[int32]).Values...)
		}

		want := wantValues[col][pageSize:]
		if len(got) != len(want) {
			t.Fatalf("column %d: got %d rows after skip, want %d", col, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("column %d row %d: got %d, want %d", col, i, got[i], want[i])
			}
		}
	}
}

// TestPageIteratorSkipPageThenNext exercises the page-independence property
// directly on PageIterator: calling SkipPage once and then Next must read
// the same bytes as calling Nth(1) would.
func TestPageIteratorSkipPageThenNext(t *testing.T) {
	const rows = 40
	const pageSize = 10

	schema := &Schema{Fields: []Field{{Name: "v", Type: Int32Type()}}}
	values := make([]int32, rows)
	for i := range values {
		values[i] = int32(i)
	}
	col := array.NewPrimitiveArray(values, nil)

	var buf bytes.Buffer
	w := NewWriter(&buf, schema, WithMaxPageSize(pageSize))
	if err := w.Write([]array.Array{col}); err != nil {
		t.Fatal(err)
	}
	size, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	metas, _, err := ReadMeta(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		t.Fatal(err)
	}
	leaves := LeafDescriptors(schema.Fields[0])

	skipThenNext := OpenColumn(bytes.NewReader(buf.Bytes()), leaves[0], metas[0])
	if err := skipThenNext.SkipPage(); err != nil {
		t.Fatalf("SkipPage: %v", err)
	}
	gotPage, err := skipThenNext.Next()
	if err != nil {
		t.Fatalf("Next after SkipPage: %v", err)
	}

	nth := OpenColumn(bytes.NewReader(buf.Bytes()), leaves[0], metas[0])
	wantPage, err := nth.Nth(1)
	if err != nil {
		t.Fatalf("Nth(1): %v", err)
	}

	gotValues := gotPage.Values.(*array.PrimitiveArray[int32]).Values
	wantValues := wantPage.Values.(*array.PrimitiveArray[int32]).Values
	if len(gotValues) != len(wantValues) {
		t.Fatalf("got %d values, want %d", len(gotValues), len(wantValues))
	}
	for i := range wantValues {
		if gotValues[i] != wantValues[i] {
			t.Fatalf("value %d: got %d, want %d", i, gotValues[i], wantValues[i])
		}
	}
}
