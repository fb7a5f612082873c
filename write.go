package native

import (
	"fmt"
	"io"

	"github.com/colnative/native/array"
	"github.com/colnative/native/compress"
	_ "github.com/colnative/native/compress/none"
	"github.com/colnative/native/internal/ioext"
)

// writerConfig holds the tunables a WriterOption may set.
type writerConfig struct {
	codec       compress.Codec
	maxPageRows int
}

// WriterOption configures a Writer, following the functional-options
// pattern used throughout this package for Writer/Reader construction.
type WriterOption func(*writerConfig)

// WithCompression selects the codec used to compress every page. The
// default is compress.None.
func WithCompression(codec compress.Codec) WriterOption {
	return func(c *writerConfig) { c.codec = codec }
}

// WithMaxPageSize bounds the number of rows shredded into a single page.
// The default is 8192 rows.
func WithMaxPageSize(rows int) WriterOption {
	return func(c *writerConfig) { c.maxPageRows = rows }
}

const defaultMaxPageRows = 8192

// Writer appends row batches to a columnar file, one schema-ordered batch
// of per-field arrays at a time, and writes the footer on Finish.
type Writer struct {
	w        *ioext.OffsetTrackingWriter
	schema   *Schema
	leaves   []LeafDescriptor
	metas    []ColumnMeta
	cfg      writerConfig
	scratch  []byte
	finished bool
}

// NewWriter returns a Writer for schema, appending to w.
func NewWriter(w io.Writer, schema *Schema, opts ...WriterOption) *Writer {
	cfg := writerConfig{codec: mustCodec(compress.None), maxPageRows: defaultMaxPageRows}
	for _, opt := range opts {
		opt(&cfg)
	}
	leaves := SchemaLeafDescriptors(schema)
	metas := make([]ColumnMeta, len(leaves))
	for i := range metas {
		metas[i].Offset = -1 // set lazily to the first page's starting offset
	}
	return &Writer{
		w:      ioext.NewOffsetTrackingWriter(w),
		schema: schema,
		leaves: leaves,
		metas:  metas,
		cfg:    cfg,
	}
}

func mustCodec(k compress.Kind) compress.Codec {
	c, err := compress.Lookup(k)
	if err != nil {
		panic(err)
	}
	return c
}

// Write shreds one row batch — one array.Array per top-level schema
// field, in schema order — and appends the resulting pages to the file.
// Write may be called any number of times before Finish; each call
// contributes independent pages, so a reader can skip whole Write calls
// via the page iterator's SkipPage.
func (wr *Writer) Write(columns []array.Array) error {
	if wr.finished {
		return ErrWriterFinished
	}
	if len(columns) != len(wr.schema.Fields) {
		return fmt.Errorf("native: Write: got %d columns, schema has %d fields", len(columns), len(wr.schema.Fields))
	}

	leafCursor := 0
	for i, field := range wr.schema.Fields {
		chunks, err := ShredField(field, columns[i])
		if err != nil {
			return fmt.Errorf("native: shredding field %q: %w", field.Name, err)
		}
		for _, chunk := range chunks {
			if err := wr.writeChunk(leafCursor, chunk); err != nil {
				return err
			}
			leafCursor++
		}
	}
	return nil
}

// writeChunk slices one leaf's shredded chunk into pages of at most
// cfg.maxPageRows logical rows each and appends them to the file.
func (wr *Writer) writeChunk(leafIdx int, chunk LeafChunk) error {
	leaf := wr.leaves[leafIdx]
	meta := &wr.metas[leafIdx]

	// computeRowBoundaries maps a level-stream position to a logical row boundary: for
	// non-repeated leaves every entry is its own row; for repeated leaves a
	// new row begins wherever the repetition level drops back to the
	// leaf's own top repetition bound... in practice back to 0 relative to
	// this leaf's outermost list, which this format always tracks as
	// repetition level 0 marking "first entry of a new top-level row".
	totalEntries := entryCount(leaf, chunk)
	if totalEntries == 0 {
		return nil
	}

	rowBoundaries := computeRowBoundaries(leaf, chunk, totalEntries)

	valueCursor := 0
	entryCursor := 0
	for entryCursor < totalEntries {
		// Determine how many rows (and thus how many level-stream entries
		// and defined values) belong in the next page.
		rows, entries, values := pageSlice(leaf, rowBoundaries, entryCursor, wr.cfg.maxPageRows, chunk, valueCursor)

		var defSlice, repSlice []int32
		if chunk.DefLevels != nil {
			defSlice = chunk.DefLevels[entryCursor : entryCursor+entries]
		}
		if chunk.RepLevels != nil {
			repSlice = chunk.RepLevels[entryCursor : entryCursor+entries]
		}

		valuesArr := sliceValues(leaf.Type.ID, chunk.Values, valueCursor, values)

		if meta.Offset < 0 {
			meta.Offset = wr.w.Offset()
		}
		n, err := WritePage(wr.w, wr.cfg.codec, leaf, rows, valuesArr, defSlice, repSlice, &wr.scratch)
		if err != nil {
			return fmt.Errorf("native: writing page for %v: %w", leaf.Path, err)
		}
		meta.Pages = append(meta.Pages, PageMeta{Length: int64(n), NumValues: entries})

		entryCursor += entries
		valueCursor += values
	}
	return nil
}

// entryCount returns the number of level-stream entries in chunk — the
// number of rows for a leaf with no levels at all, or len(DefLevels)/
// len(RepLevels) otherwise (they are always equal in length).
func entryCount(leaf LeafDescriptor, chunk LeafChunk) int {
	if chunk.DefLevels != nil {
		return len(chunk.DefLevels)
	}
	if chunk.RepLevels != nil {
		return len(chunk.RepLevels)
	}
	return chunk.Values.Len()
}

// computeRowBoundaries returns, for each logical row, the number of
// level-stream entries it spans (1 for non-repeated leaves). Index i holds
// the entry count of row i.
func computeRowBoundaries(leaf LeafDescriptor, chunk LeafChunk, totalEntries int) []int {
	if chunk.RepLevels == nil {
		bounds := make([]int, totalEntries)
		for i := range bounds {
			bounds[i] = 1
		}
		return bounds
	}
	var bounds []int
	count := 0
	for i, r := range chunk.RepLevels {
		if i > 0 && r == 0 {
			bounds = append(bounds, count)
			count = 0
		}
		count++
	}
	bounds = append(bounds, count)
	return bounds
}

// pageSlice decides how many rows, level entries, and defined values the
// next page (starting at entryCursor, bounded by maxRows) should contain.
func pageSlice(leaf LeafDescriptor, rowBounds []int, entryCursor, maxRows int, chunk LeafChunk, valueCursor int) (rows, entries, values int) {
	entryOffset := 0
	rowIdx := 0
	// find which row entryCursor begins at
	acc := 0
	for rowIdx < len(rowBounds) && acc < entryCursor {
		acc += rowBounds[rowIdx]
		rowIdx++
	}
	for rowIdx < len(rowBounds) && rows < maxRows {
		entries += rowBounds[rowIdx]
		rowIdx++
		rows++
	}
	_ = entryOffset

	if chunk.DefLevels != nil {
		for _, d := range chunk.DefLevels[entryCursor : entryCursor+entries] {
			if int16(d) == leaf.MaxDefinitionLevel {
				values++
			}
		}
	} else {
		values = entries
	}
	return rows, entries, values
}

func sliceValues(typ TypeID, values array.Array, start, n int) array.Array {
	switch typ {
	case Int8:
		return sliceNumeric(values.(*array.PrimitiveArray[int8]).Values, start, n)
	case Int16:
		return sliceNumeric(values.(*array.PrimitiveArray[int16]).Values, start, n)
	case Int32:
		return sliceNumeric(values.(*array.PrimitiveArray[int32]).Values, start, n)
	case Int64:
		return sliceNumeric(values.(*array.PrimitiveArray[int64]).Values, start, n)
	case Uint8:
		return sliceNumeric(values.(*array.PrimitiveArray[uint8]).Values, start, n)
	case Uint16:
		return sliceNumeric(values.(*array.PrimitiveArray[uint16]).Values, start, n)
	case Uint32:
		return sliceNumeric(values.(*array.PrimitiveArray[uint32]).Values, start, n)
	case Uint64:
		return sliceNumeric(values.(*array.PrimitiveArray[uint64]).Values, start, n)
	case Float32:
		return sliceNumeric(values.(*array.PrimitiveArray[float32]).Values, start, n)
	case Float64:
		return sliceNumeric(values.(*array.PrimitiveArray[float64]).Values, start, n)
	case Bool:
		ba := values.(*array.BoolArray)
		bools := ba.Values.Bools()[start : start+n]
		return array.NewBoolArray(bools, nil)
	case Binary, Utf8:
		ba := values.(*array.BinaryArray)
		vals := make([][]byte, n)
		for i := 0; i < n; i++ {
			vals[i] = ba.ValueAt(start + i)
		}
		if typ == Binary {
			return array.NewBinaryArray(vals, nil)
		}
		strs := make([]string, n)
		for i, v := range vals {
			strs[i] = string(v)
		}
		return array.NewUtf8Array(strs, nil)
	case LargeBinary, LargeUtf8:
		la := values.(*array.LargeBinaryArray)
		vals := make([][]byte, n)
		for i := 0; i < n; i++ {
			vals[i] = la.ValueAt(start + i)
		}
		if typ == LargeBinary {
			return array.NewLargeBinaryArray(vals, nil)
		}
		strs := make([]string, n)
		for i, v := range vals {
			strs[i] = string(v)
		}
		return array.NewLargeUtf8Array(strs, nil)
	case Null:
		return &array.NullArray{N: n}
	default:
		return values
	}
}

func sliceNumeric[T array.Number](values []T, start, n int) array.Array {
	out := make([]T, n)
	copy(out, values[start:start+n])
	return array.NewPrimitiveArray(out, nil)
}

// Finish writes the footer (schema + column metas + trailer) and returns
// the total file size. The Writer must not be used again afterward.
func (wr *Writer) Finish() (int64, error) {
	if wr.finished {
		return 0, ErrWriterFinished
	}
	wr.finished = true
	for i := range wr.metas {
		if wr.metas[i].Offset < 0 {
			wr.metas[i].Offset = wr.w.Offset()
		}
	}
	if _, err := WriteFooter(wr.w, wr.schema, wr.metas); err != nil {
		return 0, fmt.Errorf("native: writing footer: %w", err)
	}
	return wr.w.Offset(), nil
}
