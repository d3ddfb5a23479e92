package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a ReadFile over an *os.File using positional reads.
// On Linux, batched reads use preadv for runs of contiguous segments.
type Local struct {
	f    *os.File
	name string
	size uint64
}

// OpenLocal opens path for reading.
func OpenLocal(path string) (*Local, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Local{f: f, name: path, size: uint64(fi.Size())}, nil
}

// ReadAt implements ReadFile.
func (f *Local) ReadAt(ctx context.Context, p []byte, off uint64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.f.ReadAt(p, int64(off))
	if err == io.EOF && n == len(p) {
		err = nil
	}
	return n, err
}

// ReadV implements ReadFile.
func (f *Local) ReadV(ctx context.Context, segs []Segment) error {
	return f.readV(ctx, segs)
}

// Size implements ReadFile.
func (f *Local) Size() uint64 { return f.size }

// Name implements ReadFile.
func (f *Local) Name() string { return f.name }

// ShouldCoalesce implements ReadFile. Local seeks are cheap; leave the
// merge decision to the configured distance alone.
func (f *Local) ShouldCoalesce() bool { return false }

// NaturalReadSize implements ReadFile.
func (f *Local) NaturalReadSize() uint64 { return DefaultNaturalReadSize }

// Close closes the underlying file.
func (f *Local) Close() error { return f.f.Close() }

// checkFull turns a short vectored read into an error.
func checkFull(name string, off uint64, want, got int) error {
	if got != want {
		return fmt.Errorf("read %q at %d: short read: got %d of %d bytes", name, off, got, want)
	}
	return nil
}
