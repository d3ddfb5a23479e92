package scanio

import (
	"errors"
	"fmt"
)

var (
	// ErrRegionOutOfBounds is returned by Enqueue when a region extends past
	// the end of the file.
	ErrRegionOutOfBounds = errors.New("region exceeds file bounds")

	// ErrNotLoaded is returned by Stream.Next when the stream is pulled
	// before a successful Load materialized it. This is a usage error, not a
	// runtime fault.
	ErrNotLoaded = errors.New("stream not loaded")
)

// ReadError indicates that a physical read failed during Load.
//
// The original underlying error can be accessed via errors.Unwrap. Streams of
// the failed cycle are left unmaterialized and must be discarded.
type ReadError struct {
	File   string
	Offset uint64
	Length uint64
	cause  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q [%d:%d): %v", e.File, e.Offset, e.Offset+e.Length, e.cause)
}

func (e *ReadError) Unwrap() error { return e.cause }
