package file

import (
	"context"
	"fmt"
	"io"
)

// InMemory is a ReadFile over a byte slice. It is the fixture backbone of
// the test suite and useful for footers already held in memory.
type InMemory struct {
	name string
	data []byte
}

// NewInMemory wraps data in a ReadFile. The slice is not copied.
func NewInMemory(name string, data []byte) *InMemory {
	return &InMemory{name: name, data: data}
}

// ReadAt implements ReadFile.
func (f *InMemory) ReadAt(ctx context.Context, p []byte, off uint64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= uint64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("read %q at %d: %w", f.name, off, io.ErrUnexpectedEOF)
	}
	return n, nil
}

// ReadV implements ReadFile.
func (f *InMemory) ReadV(ctx context.Context, segs []Segment) error {
	return readVSequential(ctx, f, segs)
}

// Size implements ReadFile.
func (f *InMemory) Size() uint64 { return uint64(len(f.data)) }

// Name implements ReadFile.
func (f *InMemory) Name() string { return f.name }

// ShouldCoalesce implements ReadFile. Memory reads are plain copies, so
// merging buys nothing.
func (f *InMemory) ShouldCoalesce() bool { return false }

// NaturalReadSize implements ReadFile.
func (f *InMemory) NaturalReadSize() uint64 { return DefaultNaturalReadSize }
