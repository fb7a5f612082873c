package levels_test

import (
	"reflect"
	"testing"

	"github.com/colnative/native/levels"
)

func TestRoundtrip(t *testing.T) {
	tests := []struct {
		name     string
		values   []int32
		maxLevel int32
	}{
		{"all zero", []int32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 1},
		{"all one", []int32{1, 1, 1, 1, 1, 1, 1, 1, 1}, 1},
		{"alternating", []int32{0, 1, 0, 1, 0, 1, 0, 1, 0, 1}, 1},
		{"mixed runs", []int32{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, 3},
		{"single value", []int32{2}, 2},
		{"short irregular", []int32{0, 1, 2, 1, 0}, 2},
		{"large uniform", make([]int32, 1000), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bitWidth := 1
			for (1 << bitWidth) <= int(tt.maxLevel) {
				bitWidth++
			}

			enc := levels.Encode(nil, tt.values, bitWidth)

			dec, err := levels.Decode(nil, enc, bitWidth, len(tt.values))
			if err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(dec, tt.values) {
				t.Fatalf("roundtrip mismatch:\n got: %v\nwant: %v", dec, tt.values)
			}
		})
	}
}

func TestDecodeTruncatesToCount(t *testing.T) {
	values := []int32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	enc := levels.Encode(nil, values, 1)

	dec, err := levels.Decode(nil, enc, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(dec) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(dec))
	}
}
