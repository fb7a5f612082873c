package ioext_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/colnative/native/internal/ioext"
)

func TestOffsetTrackingWriter(t *testing.T) {
	var buf bytes.Buffer
	w := ioext.NewOffsetTrackingWriter(&buf)

	chunks := [][]byte{[]byte("abc"), []byte(""), []byte("defgh")}
	offset := int64(0)

	for _, chunk := range chunks {
		n, err := w.Write(chunk)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(chunk) {
			t.Fatalf("wrong number of bytes written: %d != %d", n, len(chunk))
		}
		offset += int64(len(chunk))
		if w.Offset() != offset {
			t.Fatalf("wrong byte offset: %d != %d", w.Offset(), offset)
		}
	}

	if buf.String() != "abcdefgh" {
		t.Fatalf("wrong bytes written: %q", buf.String())
	}

	w.Reset(io.Discard)
	if w.Offset() != 0 {
		t.Fatalf("offset not reset: %d", w.Offset())
	}
}
