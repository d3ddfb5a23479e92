package minio

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/scanio/file"
)

// ErrNotFound is returned when the object does not exist.
var ErrNotFound = os.ErrNotExist

const (
	defaultNaturalReadSize  = 8 << 20
	defaultReadVConcurrency = 8
)

// ReadFile is a file.ReadFile over one MinIO object.
type ReadFile struct {
	client      *minio.Client
	bucket      string
	key         string
	size        int64
	concurrency int
}

var _ file.ReadFile = (*ReadFile)(nil)

// Open stats the object and returns a read file over it.
func Open(ctx context.Context, client *minio.Client, bucket, key string) (*ReadFile, error) {
	info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ReadFile{
		client:      client,
		bucket:      bucket,
		key:         key,
		size:        info.Size,
		concurrency: defaultReadVConcurrency,
	}, nil
}

// ReadAt implements file.ReadFile via a ranged GetObject.
func (f *ReadFile) ReadAt(ctx context.Context, p []byte, off uint64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	end := off + uint64(len(p)) - 1
	if end >= uint64(f.size) {
		return 0, fmt.Errorf("read %s at %d: %w", f.Name(), off, io.ErrUnexpectedEOF)
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(int64(off), int64(end)); err != nil {
		return 0, err
	}

	obj, err := f.client.GetObject(ctx, f.bucket, f.key, opts)
	if err != nil {
		return 0, err
	}
	defer func() { _ = obj.Close() }()

	return io.ReadFull(obj, p)
}

// ReadV implements file.ReadFile with one bounded-concurrency GET per
// segment.
func (f *ReadFile) ReadV(ctx context.Context, segs []file.Segment) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, seg := range segs {
		if len(seg.Data) == 0 {
			continue
		}
		g.Go(func() error {
			_, err := f.ReadAt(ctx, seg.Data, seg.Offset)
			return err
		})
	}
	return g.Wait()
}

// Size implements file.ReadFile.
func (f *ReadFile) Size() uint64 { return uint64(f.size) }

// Name implements file.ReadFile.
func (f *ReadFile) Name() string {
	return fmt.Sprintf("minio://%s/%s", f.bucket, f.key)
}

// ShouldCoalesce implements file.ReadFile.
func (f *ReadFile) ShouldCoalesce() bool { return true }

// NaturalReadSize implements file.ReadFile.
func (f *ReadFile) NaturalReadSize() uint64 { return defaultNaturalReadSize }
