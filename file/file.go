// Package file defines the random-access file capability scanio reads
// through, along with local, in-memory and decorated implementations.
// Object-store backed implementations live in the s3 and minio subpackages.
package file

import "context"

// DefaultNaturalReadSize is the advisory read granularity reported by
// implementations that have no better number.
const DefaultNaturalReadSize = 1 << 20

// Segment is one target of a batched read: Data is filled from
// [Offset, Offset+len(Data)) of the file.
type Segment struct {
	Offset uint64
	Data   []byte
}

// ReadFile is the capability a file must expose to be scanned.
//
// Implementations are selected at construction of the reader, not probed at
// runtime. All read methods are blocking; cancellation, if supported, comes
// from the context.
type ReadFile interface {
	// ReadAt fills p from the byte range starting at off and returns the
	// number of bytes written into p. A read that cannot fill p completely
	// must return an error.
	ReadAt(ctx context.Context, p []byte, off uint64) (int, error)

	// ReadV services all segments in one blocking call. Each target buffer
	// is filled independently; servicing order is unspecified, completion
	// is synchronous on return.
	ReadV(ctx context.Context, segs []Segment) error

	// Size returns the file size in bytes.
	Size() uint64

	// Name returns a diagnostic name for the file.
	Name() string

	// ShouldCoalesce hints whether neighbouring reads are worth merging
	// into one physical read. True for high-latency backends.
	ShouldCoalesce() bool

	// NaturalReadSize is an advisory sizing hint for callers planning read
	// granularity. It does not affect correctness.
	NaturalReadSize() uint64
}

// readVSequential services segments with one ReadAt each. Fallback for
// implementations without a native scatter read path.
func readVSequential(ctx context.Context, f ReadFile, segs []Segment) error {
	for _, seg := range segs {
		if len(seg.Data) == 0 {
			continue
		}
		if _, err := f.ReadAt(ctx, seg.Data, seg.Offset); err != nil {
			return err
		}
	}
	return nil
}
