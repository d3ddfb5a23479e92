package minio

import (
	"bytes"
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scanio/file"
)

// TestReadFile_Integration requires a running MinIO instance.
// Skip if not available.
func TestReadFile_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-scanio"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	content := []byte("hello minio world, this is a scanio range-read fixture")
	_, err = client.PutObject(ctx, bucket, "fixture.bin",
		bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{})
	require.NoError(t, err)

	f, err := Open(ctx, client, bucket, "fixture.bin")
	require.NoError(t, err)
	require.Equal(t, uint64(len(content)), f.Size())
	require.True(t, f.ShouldCoalesce())

	buf := make([]byte, 5)
	n, err := f.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "minio", string(buf))

	a := make([]byte, 5)
	b := make([]byte, 6)
	require.NoError(t, f.ReadV(ctx, []file.Segment{
		{Offset: 0, Data: a},
		{Offset: 12, Data: b},
	}))
	require.Equal(t, "hello", string(a))
	require.Equal(t, "world,", string(b))

	_, err = Open(ctx, client, bucket, "does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
}
