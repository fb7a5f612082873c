package native

import (
	"bufio"
	"fmt"
	"io"

	"github.com/colnative/native/array"
)

// PageIterator walks one leaf column's pages in on-disk order, reading
// from an io.ReaderAt at the absolute offsets recorded in its ColumnMeta.
// It caches the first error it encounters and returns it (plus false from
// HasNext) from then on, mirroring the teacher's columnChunkReader
// error-latching behavior. Each page is self-describing its own codec (the
// compressed-block header carries a codec tag), so the iterator itself
// needs no codec of its own to decode with.
type PageIterator struct {
	leaf LeafDescriptor
	meta ColumnMeta
	r    io.ReaderAt

	offset int64 // absolute file offset of the next unread page
	index  int   // index into meta.Pages of the next page

	dst     []byte
	scratch []byte
	err     error
}

// OpenColumn returns a PageIterator over leaf's pages, as recorded in meta.
func OpenColumn(r io.ReaderAt, leaf LeafDescriptor, meta ColumnMeta) *PageIterator {
	return &PageIterator{leaf: leaf, meta: meta, r: r, offset: meta.Offset}
}

// Err returns the first error encountered, or nil.
func (it *PageIterator) Err() error { return it.err }

// HasNext reports whether another page remains to be read.
func (it *PageIterator) HasNext() bool {
	return it.err == nil && it.index < len(it.meta.Pages)
}

// Next decodes and returns the next page, advancing past it.
func (it *PageIterator) Next() (*DecodedPage, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.index >= len(it.meta.Pages) {
		return nil, io.EOF
	}
	pm := it.meta.Pages[it.index]
	section := io.NewSectionReader(it.r, it.offset, pm.Length)
	page, err := ReadPage(bufio.NewReader(section), it.leaf, pm.NumValues, it.dst, &it.scratch)
	if err != nil {
		it.err = fmt.Errorf("native: reading page %d of %v: %w", it.index, it.leaf.Path, err)
		return nil, it.err
	}
	it.offset += pm.Length
	it.index++
	return page, nil
}

// SkipPage advances past the next page without decoding it, the cheap
// path a reader takes when a predicate (evaluated elsewhere) has already
// ruled the page out.
func (it *PageIterator) SkipPage() error {
	if it.err != nil {
		return it.err
	}
	if it.index >= len(it.meta.Pages) {
		return io.EOF
	}
	it.offset += it.meta.Pages[it.index].Length
	it.index++
	return nil
}

// Nth seeks directly to the n'th page (0-based, skipping every earlier
// page without decoding it) and returns it decoded. n must not be less
// than the index of the next unread page.
func (it *PageIterator) Nth(n int) (*DecodedPage, error) {
	if it.err != nil {
		return nil, it.err
	}
	if n < it.index {
		return nil, fmt.Errorf("native: Nth(%d): iterator already past page %d", n, it.index-1)
	}
	for it.index < n {
		if err := it.SkipPage(); err != nil {
			return nil, err
		}
	}
	return it.Next()
}

// SwapBuffer installs buf as the iterator's scratch decode buffer and
// returns the previous one, letting a caller round-robin buffers across
// several column iterators instead of allocating fresh ones per page.
func (it *PageIterator) SwapBuffer(buf []byte) []byte {
	prev := it.dst
	it.dst = buf
	return prev
}

// ArrayIterator yields one field's array, one page-aligned row batch at a
// time, reconstructed from its leaves' underlying pages.
type ArrayIterator interface {
	HasNext() bool
	Next() (array.Array, error)
	Err() error
}

// columnIterator is the concrete ArrayIterator: for a bare top-level
// primitive field it has exactly one leaf and no nested wrapper, and for
// every other field it drives the full recursive assembler over all of
// the field's leaves in lockstep. Both cases share the same Next body
// because AssembleField's recursion degenerates trivially to the flat
// case when the schema has no Struct/List/FixedSizeList wrapper at all.
type columnIterator struct {
	field  Field
	leaves []LeafDescriptor
	pages  []*PageIterator
	err    error
}

// NewColumnIterator returns an ArrayIterator for field, pulling pages from
// leafIters (one PageIterator per leaf of field, in the same DFS order
// LeafDescriptors(field) produces). leafDescriptors is the caller's view
// of each leaf's ColumnDescriptor; it must agree in length and order with
// leafIters (the iterator recomputes the full LeafDescriptor, including
// NestedShape, directly from field, since both are derived from the same
// schema walk). isNested is accepted for symmetry with the rest of this
// engine's page-layout vocabulary; AssembleField needs no separate
// fast path, since its recursion already reduces to the flat case for a
// schema with no wrapper.
func NewColumnIterator(leafIters []*PageIterator, leafDescriptors []ColumnDescriptor, field Field, isNested bool) ArrayIterator {
	leaves := LeafDescriptors(field)
	return &columnIterator{field: field, leaves: leaves, pages: leafIters}
}

func (ci *columnIterator) Err() error { return ci.err }

func (ci *columnIterator) HasNext() bool {
	if ci.err != nil {
		return false
	}
	for _, p := range ci.pages {
		if p.Err() != nil {
			ci.err = p.Err()
			return false
		}
		if p.HasNext() {
			return true
		}
	}
	return false
}

// Next pulls the next page from every leaf of the field — which, by
// construction, cover the same row range since every leaf was shredded
// from the same row batch with the same page-size bound — and assembles
// them into one array.Array.
func (ci *columnIterator) Next() (array.Array, error) {
	if ci.err != nil {
		return nil, ci.err
	}
	if len(ci.pages) != len(ci.leaves) {
		ci.err = fmt.Errorf("native: assembling %q: %d leaf iterators for %d leaves: %w", ci.field.Name, len(ci.pages), len(ci.leaves), ErrSchemaMismatch)
		return nil, ci.err
	}
	pages := make([]*DecodedPage, len(ci.pages))
	numRows := -1
	for i, p := range ci.pages {
		page, err := p.Next()
		if err != nil {
			ci.err = fmt.Errorf("native: assembling %q: %w", ci.field.Name, err)
			return nil, ci.err
		}
		pages[i] = page
		if numRows < 0 {
			numRows = page.NumRows
		} else if page.NumRows != numRows {
			ci.err = fmt.Errorf("native: assembling %q: leaf page row counts diverged (%d vs %d): %w", ci.field.Name, numRows, page.NumRows, ErrCorrupted)
			return nil, ci.err
		}
	}
	cursors := make([]*leafCursor, len(ci.leaves))
	for i, l := range ci.leaves {
		cursors[i] = newLeafCursor(l, pages[i])
	}
	arr, err := AssembleField(ci.field, cursors, numRows)
	if err != nil {
		ci.err = fmt.Errorf("native: assembling %q: %w", ci.field.Name, err)
		return nil, ci.err
	}
	return arr, nil
}
