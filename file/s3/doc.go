// Package s3 provides a file.ReadFile over an S3 object using ranged GETs.
//
// Every ReadAt turns into one GetObject with a Range header; large reads are
// delegated to the s3 transfer manager, which fetches the range in
// concurrent parts. ReadV fans segments out over a bounded errgroup.
//
// S3 charges per request and adds tens of milliseconds of first-byte
// latency, so the file reports ShouldCoalesce and a large natural read
// size: merged reads are almost always worth the over-read gap bytes here.
package s3
