package native

import (
	"fmt"

	"github.com/colnative/native/format"
)

// encodeSchema serializes schema into the self-contained "schema bytes"
// block written near the end of the file, just before the column-metas
// block.
func encodeSchema(schema *Schema) []byte {
	var buf []byte
	buf = format.AppendUint32(buf, uint32(len(schema.Fields)))
	for _, f := range schema.Fields {
		buf = encodeField(buf, f)
	}
	return buf
}

func encodeField(buf []byte, f Field) []byte {
	buf = encodeString(buf, f.Name)
	buf = append(buf, boolByte(f.Nullable))
	return encodeType(buf, f.Type)
}

func encodeType(buf []byte, t DataType) []byte {
	buf = append(buf, byte(t.ID))
	switch t.ID {
	case List, LargeList:
		buf = encodeField(buf, *t.Elem)
	case FixedSizeList:
		buf = format.AppendUint32(buf, uint32(t.FixedSizeListLen))
		buf = encodeField(buf, *t.Elem)
	case FixedSizeBinary:
		buf = format.AppendUint32(buf, uint32(t.FixedSizeBinaryLen))
	case Struct:
		buf = format.AppendUint32(buf, uint32(len(t.Fields)))
		for _, child := range t.Fields {
			buf = encodeField(buf, child)
		}
	}
	return buf
}

func encodeString(buf []byte, s string) []byte {
	buf = format.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// decodeSchema is the inverse of encodeSchema.
func decodeSchema(buf []byte) (*Schema, error) {
	n, buf, err := readUint32(buf)
	if err != nil {
		return nil, err
	}
	fields := make([]Field, n)
	for i := range fields {
		var f Field
		f, buf, err = decodeField(buf)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return &Schema{Fields: fields}, nil
}

func decodeField(buf []byte) (Field, []byte, error) {
	name, buf, err := readString(buf)
	if err != nil {
		return Field{}, nil, err
	}
	if len(buf) < 1 {
		return Field{}, nil, fmt.Errorf("native: decoding field nullability: %w", ErrShortRead)
	}
	nullable := buf[0] == 1
	buf = buf[1:]
	typ, buf, err := decodeType(buf)
	if err != nil {
		return Field{}, nil, err
	}
	return Field{Name: name, Nullable: nullable, Type: typ}, buf, nil
}

func decodeType(buf []byte) (DataType, []byte, error) {
	if len(buf) < 1 {
		return DataType{}, nil, fmt.Errorf("native: decoding type tag: %w", ErrShortRead)
	}
	id := TypeID(buf[0])
	buf = buf[1:]

	switch id {
	case List, LargeList:
		elem, rest, err := decodeField(buf)
		if err != nil {
			return DataType{}, nil, err
		}
		return DataType{ID: id, Elem: &elem}, rest, nil

	case FixedSizeList:
		n, rest, err := readUint32(buf)
		if err != nil {
			return DataType{}, nil, err
		}
		elem, rest, err := decodeField(rest)
		if err != nil {
			return DataType{}, nil, err
		}
		return DataType{ID: id, FixedSizeListLen: int(n), Elem: &elem}, rest, nil

	case FixedSizeBinary:
		n, rest, err := readUint32(buf)
		if err != nil {
			return DataType{}, nil, err
		}
		return DataType{ID: id, FixedSizeBinaryLen: int(n)}, rest, nil

	case Struct:
		n, rest, err := readUint32(buf)
		if err != nil {
			return DataType{}, nil, err
		}
		children := make([]Field, n)
		for i := range children {
			var f Field
			f, rest, err = decodeField(rest)
			if err != nil {
				return DataType{}, nil, err
			}
			children[i] = f
		}
		return DataType{ID: id, Fields: children}, rest, nil

	default:
		return DataType{ID: id}, buf, nil
	}
}

func readUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("native: decoding length prefix: %w", ErrShortRead)
	}
	return format.DecodeUint32(buf[:4]), buf[4:], nil
}

func readString(buf []byte) (string, []byte, error) {
	n, buf, err := readUint32(buf)
	if err != nil {
		return "", nil, err
	}
	if len(buf) < int(n) {
		return "", nil, fmt.Errorf("native: decoding string payload: %w", ErrShortRead)
	}
	return string(buf[:n]), buf[n:], nil
}
