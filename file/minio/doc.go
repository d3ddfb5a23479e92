// Package minio provides a file.ReadFile over an object in MinIO or any
// S3-compatible store reachable through minio-go.
//
// ReadAt issues one GetObject with a byte range; ReadV fans segments out
// over a bounded errgroup. Like S3, object reads pay per request, so the
// file reports ShouldCoalesce and a large natural read size.
package minio
