package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/scanio/file"
)

// ErrNotFound is returned when the object does not exist.
var ErrNotFound = os.ErrNotExist

const (
	// defaultNaturalReadSize reflects that a ranged GET amortizes its
	// request overhead only over multi-megabyte transfers.
	defaultNaturalReadSize = 8 << 20

	// downloaderThreshold is the read size above which the transfer
	// manager takes over and fetches the range in concurrent parts.
	downloaderThreshold = 16 << 20

	// defaultReadVConcurrency bounds the GETs in flight for one ReadV.
	defaultReadVConcurrency = 8
)

// Client is the subset of the S3 API the read file needs.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ReadFile is a file.ReadFile over one S3 object.
type ReadFile struct {
	client      Client
	bucket      string
	key         string
	size        int64
	downloader  *manager.Downloader
	concurrency int
}

var _ file.ReadFile = (*ReadFile)(nil)

// Open stats the object and returns a read file over it.
func Open(ctx context.Context, client Client, bucket, key string) (*ReadFile, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f := &ReadFile{
		client:      client,
		bucket:      bucket,
		key:         key,
		size:        aws.ToInt64(head.ContentLength),
		concurrency: defaultReadVConcurrency,
	}
	if api, ok := client.(manager.DownloadAPIClient); ok {
		f.downloader = manager.NewDownloader(api)
	}
	return f, nil
}

// OpenDefault opens the object with a client built from the default AWS
// credential chain.
func OpenDefault(ctx context.Context, bucket, key string, optFns ...func(*awsconfig.LoadOptions) error) (*ReadFile, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}
	return Open(ctx, s3.NewFromConfig(cfg), bucket, key)
}

// ReadAt implements file.ReadFile via a ranged GetObject. Reads above the
// downloader threshold fetch the range in concurrent parts.
func (f *ReadFile) ReadAt(ctx context.Context, p []byte, off uint64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	end := off + uint64(len(p)) - 1
	if end >= uint64(f.size) {
		return 0, fmt.Errorf("read s3://%s/%s at %d: %w", f.bucket, f.key, off, io.ErrUnexpectedEOF)
	}

	rangeHeader := fmt.Sprintf("bytes=%d-%d", off, end)

	if f.downloader != nil && len(p) >= downloaderThreshold {
		n, err := f.downloader.Download(ctx, manager.NewWriteAtBuffer(p), &s3.GetObjectInput{
			Bucket: aws.String(f.bucket),
			Key:    aws.String(f.key),
			Range:  aws.String(rangeHeader),
		})
		return int(n), err
	}

	resp, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
		Range:  aws.String(rangeHeader),
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return io.ReadFull(resp.Body, p)
}

// ReadV implements file.ReadFile. Segments are fetched concurrently, each
// with its own ranged GET; the call returns when every segment is filled or
// on the first failure.
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
	return fmt.Sprintf("s3://%s/%s", f.bucket, f.key)
}

// ShouldCoalesce implements file.ReadFile.
func (f *ReadFile) ShouldCoalesce() bool { return true }

// NaturalReadSize implements file.ReadFile.
func (f *ReadFile) NaturalReadSize() uint64 { return defaultNaturalReadSize }
