package native

import "errors"

// Sentinel errors surfaced by the writer, reader, and column iterator
// engine. Callers compare with errors.Is; the engine never retries a
// failed operation internally.
var (
	// ErrCorrupted is wrapped around the on-disk invariant violations this
	// package detects: a footer whose body length disagrees with its
	// trailer, a rep/def stream left with unconsumed entries after its
	// page's rows are assembled, and leaf pages of one field whose row
	// counts diverge. Block-level faults (an unknown codec tag, a
	// decompressed size that differs from the declared one) are reported
	// by package format and do not wrap ErrCorrupted.
	ErrCorrupted = errors.New("native: corrupted file")

	// ErrShortRead is wrapped around reads in this package's page, value,
	// schema and footer decoders that produced fewer bytes than a declared
	// length required. A short compressed-block payload wraps
	// format.ErrShortRead instead.
	ErrShortRead = errors.New("native: short read")

	// ErrSchemaMismatch is returned when the number of leaves consumed
	// while assembling a field disagrees with n_leaves(field).
	ErrSchemaMismatch = errors.New("native: schema mismatch")

	// ErrNotImplemented is returned by operations on FixedSizeBinary, which
	// is reserved by the format but not implemented in v1.
	ErrNotImplemented = errors.New("native: not implemented")

	// ErrEndOfStream is returned by ParseFooter when the trailing EOS magic
	// does not match.
	ErrEndOfStream = errors.New("native: missing end-of-stream marker")

	// ErrWriterFinished is returned by Write after Finish has been called.
	ErrWriterFinished = errors.New("native: writer already finished")
)
