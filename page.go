package native

import (
	"fmt"
	"io"

	"github.com/colnative/native/array"
	"github.com/colnative/native/compress"
	"github.com/colnative/native/format"
	"github.com/colnative/native/internal/bitutil"
	"github.com/colnative/native/levels"
)

// PageMeta records one page's on-disk footprint: its total byte length (the
// raw level framing plus its compressed value block(s), so readers can skip
// it without decoding) and NumValues, the number of level-stream entries the
// page holds. For a leaf with no List/LargeList ancestor that equals the
// number of rows; beneath a list it counts leaf positions, not rows (a
// nested page states its row count in its own num_rows field).
type PageMeta struct {
	Length    int64
	NumValues int
}

// ColumnMeta is the footer entry for one leaf column: the absolute file
// offset of its first page, followed by that column's PageMeta list in
// on-disk order.
type ColumnMeta struct {
	Offset int64
	Pages  []PageMeta
}

// isNestedLeaf reports whether a leaf's pages use the nested page layout
// (a leading num_rows field) rather than the simple layout used by
// top-level, unnested fields.
func isNestedLeaf(l LeafDescriptor) bool { return len(l.Shape) > 1 }

// WritePage serializes one page of a leaf chunk — covering numRows logical
// rows of that leaf — to w and returns the number of bytes written.
//
// The level framing (num_rows for nested pages, rep_levels_len,
// def_levels_len, and the level bytes themselves) is written as raw,
// uncompressed fields; only the leaf's value(s) are wrapped in a
// compressed block (two blocks — offsets then value bytes — for
// variable-length leaves), matching the on-disk layout documented for
// simple and nested pages.
func WritePage(w io.Writer, codec compress.Codec, leaf LeafDescriptor, numRows int, values array.Array, defLevels, repLevels []int32, scratch *[]byte) (int, error) {
	written := 0

	if isNestedLeaf(leaf) {
		if err := format.WriteUint32(w, uint32(numRows)); err != nil {
			return written, err
		}
		written += 4
	}

	var repBytes, defBytes []byte
	if leaf.MaxRepetitionLevel > 0 {
		repWidth := bitutil.BitWidth(int32(leaf.MaxRepetitionLevel))
		repBytes = levels.Encode(nil, repLevels, repWidth)
	}
	if leaf.MaxDefinitionLevel > 0 {
		defWidth := bitutil.BitWidth(int32(leaf.MaxDefinitionLevel))
		defBytes = levels.Encode(nil, defLevels, defWidth)
	}

	if err := format.WriteUint32(w, uint32(len(repBytes))); err != nil {
		return written, err
	}
	written += 4
	if err := format.WriteUint32(w, uint32(len(defBytes))); err != nil {
		return written, err
	}
	written += 4

	if len(repBytes) > 0 {
		n, err := w.Write(repBytes)
		written += n
		if err != nil {
			return written, err
		}
	}
	if len(defBytes) > 0 {
		n, err := w.Write(defBytes)
		written += n
		if err != nil {
			return written, err
		}
	}

	n, err := encodeValues(w, codec, leaf.Type.ID, values, scratch)
	written += n
	if err != nil {
		return written, fmt.Errorf("native: writing value block for %v: %w", leaf.Path, err)
	}
	return written, nil
}

// DecodedPage is one page's reconstructed content: the leaf-level values
// plus its definition/repetition level streams (nil when the leaf's
// corresponding MaxLevel is 0) and the number of logical rows it covers.
type DecodedPage struct {
	NumRows   int
	Values    array.Array
	DefLevels []int32
	RepLevels []int32
}

// ReadPage reads one page from r for leaf, decompressing its value
// block(s) via dst/scratch and numValues (the page's declared level-entry
// count, from its PageMeta).
func ReadPage(r io.Reader, leaf LeafDescriptor, numValues int, dst []byte, scratch *[]byte) (*DecodedPage, error) {
	nested := isNestedLeaf(leaf)
	page := &DecodedPage{NumRows: numValues}

	if nested {
		nr, err := format.ReadUint32(r)
		if err != nil {
			return nil, fmt.Errorf("native: reading page num_rows: %w", ErrShortRead)
		}
		page.NumRows = int(nr)
	}

	repLen, err := format.ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("native: reading page rep_levels_len: %w", ErrShortRead)
	}
	defLen, err := format.ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("native: reading page def_levels_len: %w", ErrShortRead)
	}

	var repBytes, defBytes []byte
	if repLen > 0 {
		repBytes = make([]byte, repLen)
		if _, err := io.ReadFull(r, repBytes); err != nil {
			return nil, fmt.Errorf("native: reading page rep levels: %w", ErrShortRead)
		}
	}
	if defLen > 0 {
		defBytes = make([]byte, defLen)
		if _, err := io.ReadFull(r, defBytes); err != nil {
			return nil, fmt.Errorf("native: reading page def levels: %w", ErrShortRead)
		}
	}

	levelCount := numValues

	if leaf.MaxRepetitionLevel > 0 {
		repWidth := bitutil.BitWidth(int32(leaf.MaxRepetitionLevel))
		rep, err := levels.Decode(nil, repBytes, repWidth, levelCount)
		if err != nil {
			return nil, fmt.Errorf("native: decoding page repetition levels: %w", err)
		}
		page.RepLevels = rep
	}

	var numDefined int
	if leaf.MaxDefinitionLevel > 0 {
		defWidth := bitutil.BitWidth(int32(leaf.MaxDefinitionLevel))
		def, err := levels.Decode(nil, defBytes, defWidth, levelCount)
		if err != nil {
			return nil, fmt.Errorf("native: decoding page definition levels: %w", err)
		}
		page.DefLevels = def
		for _, d := range def {
			if int16(d) == leaf.MaxDefinitionLevel {
				numDefined++
			}
		}
	} else {
		numDefined = levelCount
	}

	values, err := decodeValues(r, leaf.Type.ID, numDefined, dst, scratch)
	if err != nil {
		return nil, fmt.Errorf("native: reading value block for %v: %w", leaf.Path, err)
	}
	page.Values = values
	return page, nil
}
