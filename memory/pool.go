package memory

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// Pool allocates buffers for load cycles. Implementations must be safe for
// concurrent use; a single pool is typically shared by many readers.
type Pool interface {
	// Allocate returns a buffer of exactly size bytes with one reference.
	Allocate(size int) *Buffer
}

// Stats tracks pool usage.
type Stats struct {
	Allocs        int64 // allocations served
	Reuses        int64 // allocations served from a recycled slab
	BytesInUse    int64 // bytes currently held by live buffers
	BytesRecycled int64 // bytes sitting in the free lists
}

const (
	// minClassBits is the smallest size class (4 KiB).
	minClassBits = 12
	// maxClassBits is the largest pooled size class (16 MiB). Larger
	// allocations bypass the free lists.
	maxClassBits = 24
)

// ElasticPool is a size-class allocator backed by sync.Pool free lists.
// Slabs are powers of two between 4 KiB and 16 MiB; buffers are sliced to
// the exact requested size, and released slabs go back to their class for
// reuse. Requests above the largest class fall through to plain allocation.
type ElasticPool struct {
	classes [maxClassBits - minClassBits + 1]sync.Pool

	allocs        atomic.Int64
	reuses        atomic.Int64
	bytesInUse    atomic.Int64
	bytesRecycled atomic.Int64
}

// NewElasticPool creates an empty ElasticPool.
func NewElasticPool() *ElasticPool {
	return &ElasticPool{}
}

var defaultPool = NewElasticPool()

// Default returns a process-wide shared pool. Core code never reaches for
// this implicitly; it exists as a bootstrap for callers that have no pool of
// their own to inject.
func Default() Pool { return defaultPool }

// Allocate returns a buffer of exactly size bytes with one reference.
// Zero and negative sizes return an empty unpooled buffer.
func (p *ElasticPool) Allocate(size int) *Buffer {
	if size <= 0 {
		return NewBuffer(nil)
	}

	p.allocs.Add(1)
	p.bytesInUse.Add(int64(size))

	class := classFor(size)
	if class < 0 {
		// Beyond the largest class. One-off allocation, GC reclaims it.
		b := newPooledBuffer(make([]byte, size), func([]byte) {
			p.bytesInUse.Add(int64(-size))
		})
		return b
	}

	var slab []byte
	if v := p.classes[class].Get(); v != nil {
		slab = v.([]byte)
		p.reuses.Add(1)
		p.bytesRecycled.Add(int64(-cap(slab)))
	} else {
		slab = make([]byte, 1<<(class+minClassBits))
	}

	b := newPooledBuffer(slab[:size], func(data []byte) {
		p.bytesInUse.Add(int64(-size))
		p.bytesRecycled.Add(int64(cap(data)))
		p.classes[class].Put(data[:cap(data)])
	})
	return b
}

// Stats returns a snapshot of the pool's counters.
func (p *ElasticPool) Stats() Stats {
	return Stats{
		Allocs:        p.allocs.Load(),
		Reuses:        p.reuses.Load(),
		BytesInUse:    p.bytesInUse.Load(),
		BytesRecycled: p.bytesRecycled.Load(),
	}
}

// classFor returns the size-class index for size, or -1 when size exceeds
// the largest pooled class.
func classFor(size int) int {
	b := bits.Len(uint(size - 1))
	if b < minClassBits {
		return 0
	}
	if b > maxClassBits {
		return -1
	}
	return b - minClassBits
}
