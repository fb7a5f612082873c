package array

// ListArray holds a child array addressed by an offsets buffer of length
// Len()+1, plus an optional validity bitmap over the list rows themselves.
type ListArray struct {
	Offsets  []int32
	Values   Array
	Validity *Bitmap
}

func (a *ListArray) Len() int { return len(a.Offsets) - 1 }

// LargeListArray is the int64-offset counterpart of ListArray.
type LargeListArray struct {
	Offsets  []int64
	Values   Array
	Validity *Bitmap
}

func (a *LargeListArray) Len() int { return len(a.Offsets) - 1 }

// FixedSizeListArray holds N child values per row with no offsets buffer:
// row i occupies Values[i*N : (i+1)*N].
type FixedSizeListArray struct {
	N        int
	Length   int
	Values   Array
	Validity *Bitmap
}

func (a *FixedSizeListArray) Len() int { return a.Length }

// StructArray holds one child array per field, all sharing the same
// length, plus an optional validity bitmap over the struct rows
// themselves.
type StructArray struct {
	Fields   []Array
	Length   int
	Validity *Bitmap
}

func (a *StructArray) Len() int { return a.Length }
