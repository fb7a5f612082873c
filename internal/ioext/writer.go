// Package ioext provides a small io.Writer wrapper used by the file writer
// to track the absolute byte offset of the sink as pages are
// appended, without requiring the sink itself to be seekable.
package ioext

import "io"

// OffsetTrackingWriter wraps an io.Writer and keeps track of the number of
// bytes written through it. The column writer uses this to record each
// page's absolute starting offset as it appends page bytes to the sink.
type OffsetTrackingWriter struct {
	writer io.Writer
	offset int64
}

func NewOffsetTrackingWriter(w io.Writer) *OffsetTrackingWriter {
	return &OffsetTrackingWriter{writer: w}
}

func (w *OffsetTrackingWriter) Writer() io.Writer {
	return w.writer
}

// Offset returns the number of bytes written so far.
func (w *OffsetTrackingWriter) Offset() int64 {
	return w.offset
}

func (w *OffsetTrackingWriter) Reset(writer io.Writer) {
	w.writer = writer
	w.offset = 0
}

func (w *OffsetTrackingWriter) Write(b []byte) (int, error) {
	n, err := w.writer.Write(b)
	w.offset += int64(n)
	return n, err
}

func (w *OffsetTrackingWriter) WriteString(s string) (int, error) {
	n, err := io.WriteString(w.writer, s)
	w.offset += int64(n)
	return n, err
}

func (w *OffsetTrackingWriter) ReadFrom(r io.Reader) (int64, error) {
	// io.Copy will make use of io.ReaderFrom if w.writer implements it.
	n, err := io.Copy(w.writer, r)
	w.offset += n
	return n, err
}

var (
	_ io.ReaderFrom   = (*OffsetTrackingWriter)(nil)
	_ io.StringWriter = (*OffsetTrackingWriter)(nil)
)
