package scanio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/scanio/file"
	"github.com/hupe1980/scanio/memory"
)

// BufferedInput coalesces many small byte-range requests against one file
// into a minimal number of physical reads.
//
// Usage is two-phase: Enqueue any number of regions, then call Load once to
// materialize all of them. The file and the pool are shared, externally
// owned collaborators; Close releases only this instance's buffers.
//
// A BufferedInput is not safe for concurrent Enqueue/Load calls without
// external synchronization.
type BufferedInput struct {
	file file.ReadFile
	pool memory.Pool
	opts options

	pending []*pendingRead
	buffers []*memory.Buffer
}

// New creates a BufferedInput reading from f and allocating from pool.
func New(f file.ReadFile, pool memory.Pool, opts ...Option) *BufferedInput {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &BufferedInput{
		file: f,
		pool: pool,
		opts: o,
	}
}

// Enqueue registers a region for the next Load and immediately returns the
// lazy stream that will serve its bytes. No I/O happens here.
//
// Regions extending past the file's size are rejected with
// ErrRegionOutOfBounds. Zero-length regions return an already-drained stream
// and never enter the pending queue.
func (b *BufferedInput) Enqueue(region Region) (*Stream, error) {
	size := b.file.Size()
	if region.Offset > size || region.Length > size-region.Offset {
		err := fmt.Errorf("%w: [%d:%d) in %q of size %d",
			ErrRegionOutOfBounds, region.Offset, region.End(), b.file.Name(), size)
		b.opts.logger.LogEnqueue(region, err)
		return nil, err
	}

	b.opts.metrics.RecordEnqueue(region)
	b.opts.logger.LogEnqueue(region, nil)

	if region.Empty() {
		return newExhaustedStream(region), nil
	}

	s := newStream(region, b.opts.windowSize)
	b.pending = append(b.pending, &pendingRead{region: region, stream: s})
	return s, nil
}

// Pending returns the number of regions waiting for the next Load.
func (b *BufferedInput) Pending() int { return len(b.pending) }

// Load materializes every pending stream.
//
// The scalar strategy sorts pending regions by offset, chain-merges them
// under the merge distance and issues one ranged read per merge group. The
// vectorized strategy issues a single batched read with one target buffer
// per region. Either way the pending queue is cleared, and buffers of the
// previous cycle are released (streams still holding views keep their
// buffers alive).
//
// Failure is atomic: on the first read error no stream of this cycle is
// materialized, every one of them must be discarded, and the error is
// returned as a *ReadError. No retry is attempted.
func (b *BufferedInput) Load(ctx context.Context, logType LogType) error {
	if len(b.pending) == 0 {
		return nil
	}

	pending := b.pending
	b.pending = nil

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].region.Offset < pending[j].region.Offset
	})

	stats := LoadStats{Regions: len(pending)}
	for _, pr := range pending {
		stats.BytesRequested += pr.region.Length
	}

	start := time.Now()
	var (
		bufs []*memory.Buffer
		err  error
	)
	if b.opts.vectorized {
		bufs, err = b.loadVectorized(ctx, logType, pending, &stats)
	} else {
		bufs, err = b.loadScalar(ctx, logType, pending, &stats)
	}
	stats.Duration = time.Since(start)

	if err != nil {
		for _, buf := range bufs {
			buf.Release()
		}
		b.opts.metrics.RecordLoad(logType, stats, err)
		b.opts.logger.LogLoad(ctx, logType, stats, err)
		return err
	}

	// Swap in the new cycle's arena binding. Streams of earlier cycles hold
	// their own refs, so releasing ours here never frees a live buffer.
	b.releaseBuffers()
	b.buffers = bufs

	b.opts.metrics.RecordLoad(logType, stats, nil)
	b.opts.logger.LogLoad(ctx, logType, stats, nil)
	return nil
}

// loadScalar reads one merge group at a time and slices each group buffer
// into per-request views. Streams are bound only after every read succeeded.
func (b *BufferedInput) loadScalar(ctx context.Context, logType LogType, pending []*pendingRead, stats *LoadStats) ([]*memory.Buffer, error) {
	var groups []mergeGroup
	switch {
	case b.opts.coalescePolicy == CoalesceNever:
		groups = splitRegions(pending)
	case b.opts.coalescePolicy == CoalesceAuto && !b.file.ShouldCoalesce():
		groups = splitRegions(pending)
	default:
		groups = mergeRegions(pending, b.opts.mergeDistance)
	}

	bufs := make([]*memory.Buffer, 0, len(groups))
	for _, g := range groups {
		buf := b.pool.Allocate(int(g.span.Length))
		bufs = append(bufs, buf)

		if err := b.readInto(ctx, logType, g.span, buf.Bytes()); err != nil {
			return bufs, err
		}
		stats.Reads++
		stats.BytesRead += g.span.Length
	}

	for i, g := range groups {
		for _, pr := range g.members {
			view := bufs[i].Slice(int(pr.region.Offset-g.span.Offset), int(pr.region.Length))
			pr.stream.bind(view)
		}
	}
	return bufs, nil
}

// loadVectorized allocates one exactly-sized buffer per request and issues a
// single batched read carrying all segments.
func (b *BufferedInput) loadVectorized(ctx context.Context, logType LogType, pending []*pendingRead, stats *LoadStats) ([]*memory.Buffer, error) {
	bufs := make([]*memory.Buffer, len(pending))
	segs := make([]file.Segment, len(pending))
	for i, pr := range pending {
		bufs[i] = b.pool.Allocate(int(pr.region.Length))
		segs[i] = file.Segment{Offset: pr.region.Offset, Data: bufs[i].Bytes()}
	}

	if err := b.file.ReadV(ctx, segs); err != nil {
		span := Region{Offset: pending[0].region.Offset}
		span.Length = pending[len(pending)-1].region.End() - span.Offset
		return bufs, &ReadError{File: b.file.Name(), Offset: span.Offset, Length: span.Length, cause: err}
	}
	stats.Reads = 1
	for _, pr := range pending {
		stats.BytesRead += pr.region.Length
		b.opts.metrics.RecordRead(logType, pr.region.Offset, pr.region.Length)
	}

	for i, pr := range pending {
		pr.stream.bind(bufs[i].Slice(0, bufs[i].Len()))
	}
	return bufs, nil
}

// readInto performs one ranged read covering span and fails on short reads.
func (b *BufferedInput) readInto(ctx context.Context, logType LogType, span Region, dst []byte) error {
	n, err := b.file.ReadAt(ctx, dst, span.Offset)
	if err != nil {
		return &ReadError{File: b.file.Name(), Offset: span.Offset, Length: span.Length, cause: err}
	}
	if uint64(n) != span.Length {
		return &ReadError{
			File:   b.file.Name(),
			Offset: span.Offset,
			Length: span.Length,
			cause:  fmt.Errorf("short read: got %d of %d bytes", n, span.Length),
		}
	}
	b.opts.metrics.RecordRead(logType, span.Offset, span.Length)
	return nil
}

func (b *BufferedInput) releaseBuffers() {
	for _, buf := range b.buffers {
		buf.Release()
	}
	b.buffers = nil
}

// Close releases this instance's arena binding and drops any pending
// requests. The shared file and pool are left untouched.
func (b *BufferedInput) Close() error {
	b.releaseBuffers()
	b.pending = nil
	return nil
}
