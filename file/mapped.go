package file

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/scanio/internal/mmap"
)

// Mapped is a ReadFile over a memory-mapped local file. Reads are plain
// copies out of the mapping, which makes it the fastest local option for
// random access patterns.
type Mapped struct {
	m    *mmap.File
	name string
}

// OpenMapped maps the file at path.
func OpenMapped(path string) (*Mapped, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &Mapped{m: m, name: path}, nil
}

// ReadAt implements ReadFile.
func (f *Mapped) ReadAt(ctx context.Context, p []byte, off uint64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= uint64(len(f.m.Data)) {
		return 0, io.EOF
	}
	n := copy(p, f.m.Data[off:])
	if n < len(p) {
		return n, fmt.Errorf("read %q at %d: %w", f.name, off, io.ErrUnexpectedEOF)
	}
	return n, nil
}

// ReadV implements ReadFile.
func (f *Mapped) ReadV(ctx context.Context, segs []Segment) error {
	return readVSequential(ctx, f, segs)
}

// Size implements ReadFile.
func (f *Mapped) Size() uint64 { return uint64(len(f.m.Data)) }

// Name implements ReadFile.
func (f *Mapped) Name() string { return f.name }

// ShouldCoalesce implements ReadFile. Reads are memcpy; merging only
// over-reads gap bytes for nothing.
func (f *Mapped) ShouldCoalesce() bool { return false }

// NaturalReadSize implements ReadFile.
func (f *Mapped) NaturalReadSize() uint64 { return DefaultNaturalReadSize }

// Close unmaps the file.
func (f *Mapped) Close() error { return f.m.Close() }
