package native

import (
	"fmt"
	"io"

	"github.com/colnative/native/array"
	"github.com/colnative/native/format"
)

// footerReadSize is how many trailing bytes InferSchema/ReadMeta read in
// their first pass, sized generously for typical schema+column-meta
// blocks so the common case needs only one read. If the declared sizes
// exceed what was read, a second read covers the remainder.
const footerReadSize = 64 * 1024

// readTail reads the trailing n bytes of a size-byte file (or the whole
// file, if smaller), returning them along with their absolute offset.
func readTail(r io.ReaderAt, size int64, n int64) ([]byte, int64, error) {
	if n > size {
		n = size
	}
	offset := size - n
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, offset); err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("native: reading file tail: %w", err)
	}
	return buf, offset, nil
}

// readFooter locates and decodes the footer of a size-byte file, growing
// its initial read if the declared schema/column-meta sizes demand it.
func readFooter(r io.ReaderAt, size int64) (*FileFooter, error) {
	tail, offset, err := readTail(r, size, footerReadSize)
	if err != nil {
		return nil, err
	}
	// Trim the tail to exactly the footer the trailer declares, reading
	// further back first if the initial read did not reach its start.
	if n := int64(len(tail)); n >= footerTrailerSize {
		need := footerTrailerSize + int64(format.DecodeUint32(tail[n-16:n-12])) + int64(format.DecodeUint32(tail[n-12:n-8]))
		if need > n && need <= size {
			if tail, _, err = readTail(r, size, need); err != nil {
				return nil, err
			}
			n = need
		}
		if need <= n {
			tail = tail[n-need:]
		}
	}
	footer, err := ParseFooter(tail)
	if err == nil {
		return footer, nil
	}
	if err != ErrEndOfStream || offset == 0 {
		return nil, err
	}
	// The EOS magic was not found at the end of the initial read; retry
	// against the whole file.
	tail, _, err = readTail(r, size, size)
	if err != nil {
		return nil, err
	}
	return ParseFooter(tail)
}

// InferSchema reads size's footer and returns its schema alone.
func InferSchema(r io.ReaderAt, size int64) (*Schema, error) {
	footer, err := readFooter(r, size)
	if err != nil {
		return nil, err
	}
	return footer.Schema, nil
}

// ReadMeta reads size's footer and returns every leaf column's metadata
// alongside the schema, both in schema-leaf (DFS) order.
func ReadMeta(r io.ReaderAt, size int64) ([]ColumnMeta, *Schema, error) {
	footer, err := readFooter(r, size)
	if err != nil {
		return nil, nil, err
	}
	return footer.Columns, footer.Schema, nil
}

// Chunk is one schema-ordered row batch of arrays, the read-side
// counterpart of the []array.Array slice passed to Writer.Write.
type Chunk struct {
	Columns []array.Array
}

// ReadFile opens every column of a size-byte file and decodes it to
// completion, returning the schema and one Chunk per page-aligned row
// batch — the simplest way to read back a whole file, suited to small
// files or random access rather than a data pipeline that wants to
// stream and skip.
func ReadFile(r io.ReaderAt, size int64) (*Schema, []Chunk, error) {
	footer, err := readFooter(r, size)
	if err != nil {
		return nil, nil, err
	}
	leafCursor := 0
	var fieldIters []ArrayIterator
	for _, field := range footer.Schema.Fields {
		leaves := LeafDescriptors(field)
		iters := make([]*PageIterator, len(leaves))
		descs := make([]ColumnDescriptor, len(leaves))
		for i, l := range leaves {
			meta := footer.Columns[leafCursor]
			iters[i] = OpenColumn(r, l, meta)
			descs[i] = l.ColumnDescriptor
			leafCursor++
		}
		fieldIters = append(fieldIters, NewColumnIterator(iters, descs, field, len(leaves) > 0 && len(leaves[0].Shape) > 1))
	}

	var chunks []Chunk
	for {
		if len(fieldIters) == 0 {
			break
		}
		done := false
		for _, it := range fieldIters {
			if !it.HasNext() {
				if err := it.Err(); err != nil {
					return nil, nil, err
				}
				done = true
				break
			}
		}
		if done {
			break
		}
		cols := make([]array.Array, len(fieldIters))
		for i, it := range fieldIters {
			arr, err := it.Next()
			if err != nil {
				return nil, nil, err
			}
			cols[i] = arr
		}
		chunks = append(chunks, Chunk{Columns: cols})
	}
	return footer.Schema, chunks, nil
}
