package native

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/colnative/native/array"
	"github.com/colnative/native/compress"
	"github.com/colnative/native/format"
	"github.com/colnative/native/internal/bitutil"
)

// encodeValues writes one leaf's value block(s) to w: a single compressed
// block of fixed-width little-endian bytes for numeric types, a single
// compressed block of bit-packed bytes for Bool, and two compressed blocks
// — an offsets block followed by a value-bytes block — for Binary/Utf8 and
// their Large variants. Null writes no block at all: its length is implied
// by the leaf's value count. Returns the number of bytes written.
func encodeValues(w io.Writer, codec compress.Codec, typ TypeID, values array.Array, scratch *[]byte) (int, error) {
	switch typ {
	case Int8:
		buf := encodeFixed(values.(*array.PrimitiveArray[int8]).Values, 1, func(b []byte, v int8) {
			b[0] = byte(v)
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Uint8:
		buf := encodeFixed(values.(*array.PrimitiveArray[uint8]).Values, 1, func(b []byte, v uint8) {
			b[0] = v
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Int16:
		buf := encodeFixed(values.(*array.PrimitiveArray[int16]).Values, 2, func(b []byte, v int16) {
			binary.LittleEndian.PutUint16(b, uint16(v))
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Uint16:
		buf := encodeFixed(values.(*array.PrimitiveArray[uint16]).Values, 2, func(b []byte, v uint16) {
			binary.LittleEndian.PutUint16(b, v)
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Int32:
		buf := encodeFixed(values.(*array.PrimitiveArray[int32]).Values, 4, func(b []byte, v int32) {
			binary.LittleEndian.PutUint32(b, uint32(v))
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Uint32:
		buf := encodeFixed(values.(*array.PrimitiveArray[uint32]).Values, 4, func(b []byte, v uint32) {
			binary.LittleEndian.PutUint32(b, v)
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Int64:
		buf := encodeFixed(values.(*array.PrimitiveArray[int64]).Values, 8, func(b []byte, v int64) {
			binary.LittleEndian.PutUint64(b, uint64(v))
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Uint64:
		buf := encodeFixed(values.(*array.PrimitiveArray[uint64]).Values, 8, func(b []byte, v uint64) {
			binary.LittleEndian.PutUint64(b, v)
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Float32:
		buf := encodeFixed(values.(*array.PrimitiveArray[float32]).Values, 4, func(b []byte, v float32) {
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Float64:
		buf := encodeFixed(values.(*array.PrimitiveArray[float64]).Values, 8, func(b []byte, v float64) {
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		})
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Bool:
		ba := values.(*array.BoolArray)
		buf := bitutil.PackBools(ba.Values.Bools())
		return format.WriteCompressedBlock(w, codec, buf, scratch)
	case Binary, Utf8:
		ba := values.(*array.BinaryArray)
		return writeVarLenBlocks(w, codec, encodeOffsets32(ba.Offsets), ba.Values, scratch)
	case LargeBinary, LargeUtf8:
		la := values.(*array.LargeBinaryArray)
		return writeVarLenBlocks(w, codec, encodeOffsets64(la.Offsets), la.Values, scratch)
	case Null:
		return 0, nil
	case FixedSizeBinary:
		return 0, fmt.Errorf("native: encodeValues: %w", ErrNotImplemented)
	default:
		return 0, fmt.Errorf("native: encodeValues: unsupported type %s", typ)
	}
}

// writeVarLenBlocks writes the offsets block followed by the value-bytes
// block, per the two-block encoding spec.md §4.3 documents for
// Binary/Utf8/LargeBinary/LargeUtf8.
func writeVarLenBlocks(w io.Writer, codec compress.Codec, offsetBytes, values []byte, scratch *[]byte) (int, error) {
	n1, err := format.WriteCompressedBlock(w, codec, offsetBytes, scratch)
	if err != nil {
		return n1, err
	}
	n2, err := format.WriteCompressedBlock(w, codec, values, scratch)
	return n1 + n2, err
}

func encodeFixed[T any](values []T, width int, put func([]byte, T)) []byte {
	buf := make([]byte, len(values)*width)
	for i, v := range values {
		put(buf[i*width:(i+1)*width], v)
	}
	return buf
}

func encodeOffsets32(offsets []int32) []byte {
	buf := make([]byte, len(offsets)*4)
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(o))
	}
	return buf
}

func encodeOffsets64(offsets []int64) []byte {
	buf := make([]byte, len(offsets)*8)
	for i, o := range offsets {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(o))
	}
	return buf
}

// decodeValues reads one leaf's value block(s) from r and reconstructs a
// leaf-level array.Array holding exactly count fully-defined values. It is
// the inverse of encodeValues: dst/scratch are the caller's reusable
// decompression buffers, passed straight through to format.ReadCompressedBlock.
func decodeValues(r io.Reader, typ TypeID, count int, dst []byte, scratch *[]byte) (array.Array, error) {
	switch typ {
	case Int8:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[int8](buf, count, 1, func(b []byte) int8 { return int8(b[0]) },
			func(v []int8) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Uint8:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[uint8](buf, count, 1, func(b []byte) uint8 { return b[0] },
			func(v []uint8) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Int16:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[int16](buf, count, 2, func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) },
			func(v []int16) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Uint16:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[uint16](buf, count, 2, func(b []byte) uint16 { return binary.LittleEndian.Uint16(b) },
			func(v []uint16) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Int32:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[int32](buf, count, 4, func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
			func(v []int32) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Uint32:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[uint32](buf, count, 4, func(b []byte) uint32 { return binary.LittleEndian.Uint32(b) },
			func(v []uint32) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Int64:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[int64](buf, count, 8, func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) },
			func(v []int64) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Uint64:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[uint64](buf, count, 8, func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) },
			func(v []uint64) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Float32:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[float32](buf, count, 4, func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) },
			func(v []float32) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Float64:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		return decodeFixed[float64](buf, count, 8, func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) },
			func(v []float64) array.Array { return array.NewPrimitiveArray(v, nil) })
	case Bool:
		buf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		if bitutil.ByteCount(count) > len(buf) {
			return nil, fmt.Errorf("native: decodeValues: %w", ErrShortRead)
		}
		bools := bitutil.UnpackBools(buf, count)
		return array.NewBoolArray(bools, nil), nil
	case Binary, Utf8:
		offBuf, err := format.ReadCompressedBlock(r, nil, scratch)
		if err != nil {
			return nil, err
		}
		offsets, err := decodeOffsets32(offBuf, count+1)
		if err != nil {
			return nil, err
		}
		valBuf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		vals := make([]byte, len(valBuf))
		copy(vals, valBuf)
		return &array.BinaryArray{Offsets: offsets, Values: vals}, nil
	case LargeBinary, LargeUtf8:
		offBuf, err := format.ReadCompressedBlock(r, nil, scratch)
		if err != nil {
			return nil, err
		}
		offsets, err := decodeOffsets64(offBuf, count+1)
		if err != nil {
			return nil, err
		}
		valBuf, err := format.ReadCompressedBlock(r, dst, scratch)
		if err != nil {
			return nil, err
		}
		vals := make([]byte, len(valBuf))
		copy(vals, valBuf)
		return &array.LargeBinaryArray{Offsets: offsets, Values: vals}, nil
	case Null:
		return &array.NullArray{N: count}, nil
	case FixedSizeBinary:
		return nil, fmt.Errorf("native: decodeValues: %w", ErrNotImplemented)
	default:
		return nil, fmt.Errorf("native: decodeValues: unsupported type %s", typ)
	}
}

func decodeFixed[T any](buf []byte, count, width int, get func([]byte) T, build func([]T) array.Array) (array.Array, error) {
	if len(buf) < count*width {
		return nil, fmt.Errorf("native: decodeValues: %w", ErrShortRead)
	}
	out := make([]T, count)
	for i := range out {
		out[i] = get(buf[i*width : (i+1)*width])
	}
	return build(out), nil
}

func decodeOffsets32(buf []byte, n int) ([]int32, error) {
	if len(buf) < n*4 {
		return nil, fmt.Errorf("native: decodeValues: %w", ErrShortRead)
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out, nil
}

func decodeOffsets64(buf []byte, n int) ([]int64, error) {
	if len(buf) < n*8 {
		return nil, fmt.Errorf("native: decodeValues: %w", ErrShortRead)
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return out, nil
}
