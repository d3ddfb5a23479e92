package scanio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// LoadStats summarizes one load cycle.
type LoadStats struct {
	// Regions is the number of pending requests materialized.
	Regions int
	// Reads is the number of physical read operations issued. The
	// vectorized strategy always issues exactly one.
	Reads int
	// BytesRequested is the sum of the enqueued region lengths.
	BytesRequested uint64
	// BytesRead is the number of bytes physically fetched, including gap
	// bytes over-read by merged groups.
	BytesRead uint64
	// Duration is the wall time of the load cycle.
	Duration time.Duration
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordEnqueue is called for each accepted enqueue.
	RecordEnqueue(region Region)

	// RecordRead is called for each extent physically fetched during a
	// load. The scalar strategy fetches one extent per merge group; the
	// vectorized strategy fetches every region as its own extent within a
	// single batched read.
	RecordRead(logType LogType, offset, length uint64)

	// RecordLoad is called after each load cycle. err is nil if successful.
	RecordLoad(logType LogType, stats LoadStats, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEnqueue(Region)                 {}
func (NoopMetricsCollector) RecordRead(LogType, uint64, uint64)   {}
func (NoopMetricsCollector) RecordLoad(LogType, LoadStats, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EnqueueCount   atomic.Int64
	EnqueueBytes   atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadTotalNanos atomic.Int64
	ReadExtents    atomic.Int64
	BytesRequested atomic.Int64
	BytesRead      atomic.Int64
}

// RecordEnqueue implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEnqueue(region Region) {
	b.EnqueueCount.Add(1)
	b.EnqueueBytes.Add(int64(region.Length))
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(_ LogType, _, length uint64) {
	b.ReadExtents.Add(1)
	b.BytesRead.Add(int64(length))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ LogType, stats LoadStats, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(stats.Duration.Nanoseconds())
	b.BytesRequested.Add(int64(stats.BytesRequested))
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// PageSize is the page granularity used by PageMetricsCollector.
const PageSize = 4096

// PageMetricsCollector tracks the distinct file pages requested by callers
// and the distinct pages physically fetched, at 4 KiB granularity. The ratio
// of the two exposes the read amplification caused by merged gap bytes,
// which is the number that decides whether a merge distance is paying off.
type PageMetricsCollector struct {
	BasicMetricsCollector

	mu        sync.Mutex
	requested *roaring64.Bitmap
	fetched   *roaring64.Bitmap
}

// NewPageMetricsCollector creates an empty PageMetricsCollector.
func NewPageMetricsCollector() *PageMetricsCollector {
	return &PageMetricsCollector{
		requested: roaring64.New(),
		fetched:   roaring64.New(),
	}
}

// RecordEnqueue implements MetricsCollector.
func (p *PageMetricsCollector) RecordEnqueue(region Region) {
	p.BasicMetricsCollector.RecordEnqueue(region)
	if region.Empty() {
		return
	}
	p.mu.Lock()
	p.requested.AddRange(region.Offset/PageSize, (region.End()-1)/PageSize+1)
	p.mu.Unlock()
}

// RecordRead implements MetricsCollector.
func (p *PageMetricsCollector) RecordRead(logType LogType, offset, length uint64) {
	p.BasicMetricsCollector.RecordRead(logType, offset, length)
	if length == 0 {
		return
	}
	p.mu.Lock()
	p.fetched.AddRange(offset/PageSize, (offset+length-1)/PageSize+1)
	p.mu.Unlock()
}

// PagesRequested returns the number of distinct pages callers asked for.
func (p *PageMetricsCollector) PagesRequested() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requested.GetCardinality()
}

// PagesFetched returns the number of distinct pages physically read.
func (p *PageMetricsCollector) PagesFetched() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetched.GetCardinality()
}

// ReadAmplification returns fetched pages over requested pages.
// Returns 0 when nothing was requested yet.
func (p *PageMetricsCollector) ReadAmplification() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	req := p.requested.GetCardinality()
	if req == 0 {
		return 0
	}
	return float64(p.fetched.GetCardinality()) / float64(req)
}
