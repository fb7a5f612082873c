package native

import (
	"fmt"

	"github.com/colnative/native/format"
)

// eosMagic is the 8-byte trailer written at the very end of every file,
// letting ParseFooter tell a truncated write from a complete one before it
// even looks at the footer sizes.
var eosMagic = [8]byte{'N', 'A', 'T', 'V', 'E', 'O', 'S', '1'}

// footerTrailerSize is the fixed-size tail every file ends with:
// schema_size:u32, column_meta_size:u32, eosMagic.
const footerTrailerSize = 4 + 4 + 8

func encodeColumnMetas(metas []ColumnMeta) []byte {
	var buf []byte
	buf = format.AppendUint32(buf, uint32(len(metas)))
	for _, cm := range metas {
		buf = format.AppendUint64(buf, uint64(cm.Offset))
		buf = format.AppendUint32(buf, uint32(len(cm.Pages)))
		for _, p := range cm.Pages {
			buf = format.AppendUint64(buf, uint64(p.Length))
			buf = format.AppendUint32(buf, uint32(p.NumValues))
		}
	}
	return buf
}

func decodeColumnMetas(buf []byte) ([]ColumnMeta, error) {
	n, buf, err := readUint32(buf)
	if err != nil {
		return nil, fmt.Errorf("native: decoding column-meta count: %w", err)
	}
	metas := make([]ColumnMeta, n)
	for i := range metas {
		offset, rest, err := readUint64(buf)
		if err != nil {
			return nil, fmt.Errorf("native: decoding column offset: %w", err)
		}
		buf = rest
		numPages, rest, err := readUint32(buf)
		if err != nil {
			return nil, fmt.Errorf("native: decoding page count: %w", err)
		}
		buf = rest
		pages := make([]PageMeta, numPages)
		for j := range pages {
			length, r, err := readUint64(buf)
			if err != nil {
				return nil, fmt.Errorf("native: decoding page length: %w", err)
			}
			buf = r
			numValues, r, err := readUint32(buf)
			if err != nil {
				return nil, fmt.Errorf("native: decoding page num_values: %w", err)
			}
			buf = r
			pages[j] = PageMeta{Length: int64(length), NumValues: int(numValues)}
		}
		metas[i] = ColumnMeta{Offset: int64(offset), Pages: pages}
	}
	return metas, nil
}

func readUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("%w", ErrShortRead)
	}
	return format.DecodeUint64(buf[:8]), buf[8:], nil
}

// WriteFooter appends the schema block, the column-metas block, and the
// fixed-size trailer (sizes + EOS magic) to w, in that order. It returns
// the total number of bytes written, which the caller adds to the running
// file offset.
func WriteFooter(w interface{ Write([]byte) (int, error) }, schema *Schema, metas []ColumnMeta) (int, error) {
	schemaBytes := encodeSchema(schema)
	metaBytes := encodeColumnMetas(metas)

	total := 0
	n, err := w.Write(schemaBytes)
	total += n
	if err != nil {
		return total, err
	}
	n, err = w.Write(metaBytes)
	total += n
	if err != nil {
		return total, err
	}

	var trailer []byte
	trailer = format.AppendUint32(trailer, uint32(len(schemaBytes)))
	trailer = format.AppendUint32(trailer, uint32(len(metaBytes)))
	trailer = append(trailer, eosMagic[:]...)
	n, err = w.Write(trailer)
	total += n
	return total, err
}

// FileFooter is the fully decoded footer: the schema and every leaf
// column's metadata, in schema-leaf (DFS) order.
type FileFooter struct {
	Schema  *Schema
	Columns []ColumnMeta
}

// ParseFooter decodes a footer previously read from the tail of a file —
// typically via a backward seek of size bytes from EOF, where size is
// discovered by reading the trailing footerTrailerSize bytes first.
func ParseFooter(tail []byte) (*FileFooter, error) {
	if len(tail) < footerTrailerSize {
		return nil, fmt.Errorf("native: footer shorter than trailer: %w", ErrCorrupted)
	}
	n := len(tail)
	magic := tail[n-8:]
	for i := range eosMagic {
		if magic[i] != eosMagic[i] {
			return nil, ErrEndOfStream
		}
	}
	schemaSize := format.DecodeUint32(tail[n-16 : n-12])
	metaSize := format.DecodeUint32(tail[n-12 : n-8])

	body := tail[:n-footerTrailerSize]
	if len(body) != int(schemaSize)+int(metaSize) {
		return nil, fmt.Errorf("native: footer body length mismatch: %w", ErrCorrupted)
	}

	schemaBytes := body[:schemaSize]
	metaBytes := body[schemaSize:]

	schema, err := decodeSchema(schemaBytes)
	if err != nil {
		return nil, fmt.Errorf("native: decoding schema: %w", err)
	}
	columns, err := decodeColumnMetas(metaBytes)
	if err != nil {
		return nil, fmt.Errorf("native: decoding column metas: %w", err)
	}
	return &FileFooter{Schema: schema, Columns: columns}, nil
}
