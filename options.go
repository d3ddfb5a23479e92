package scanio

// DefaultMergeDistance is the largest gap, in bytes, that the scalar
// strategy bridges by default. Two pending regions closer than this are
// serviced by one physical read.
const DefaultMergeDistance = 1 << 20

// CoalescePolicy decides whether the scalar strategy consults the file's own
// coalescing preference before merging.
type CoalescePolicy int

const (
	// CoalesceAlways merges purely by distance, ignoring the file's hint.
	// This is the default.
	CoalesceAlways CoalescePolicy = iota

	// CoalesceAuto merges only when the file reports ShouldCoalesce.
	// Useful for files where over-reading the gap bytes is not free.
	CoalesceAuto

	// CoalesceNever issues one physical read per pending region.
	CoalesceNever
)

type options struct {
	mergeDistance  uint64
	vectorized     bool
	coalescePolicy CoalescePolicy
	windowSize     int
	logger         *Logger
	metrics        MetricsCollector
}

// Option configures a BufferedInput at construction time.
type Option func(*options)

// WithMergeDistance sets the maximum gap bridged when merging adjacent
// regions on the scalar path. A distance of 0 merges only exactly contiguous
// regions.
func WithMergeDistance(distance uint64) Option {
	return func(o *options) {
		o.mergeDistance = distance
	}
}

// WithVectorizedLoad switches Load from the scalar strategy to a single
// batched read call carrying one target buffer per pending region.
//
// Vectorized loads never over-read gap bytes, at the cost of one descriptor
// per region. Prefer it on files with a native scatter read path.
func WithVectorizedLoad() Option {
	return func(o *options) {
		o.vectorized = true
	}
}

// WithCoalescePolicy sets how the scalar path combines the merge distance
// with the file's ShouldCoalesce hint.
func WithCoalescePolicy(p CoalescePolicy) Option {
	return func(o *options) {
		o.coalescePolicy = p
	}
}

// WithStreamWindowSize caps the number of bytes each Stream.Next pull
// returns. Zero (the default) yields the whole region in one window.
func WithStreamWindowSize(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.windowSize = n
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector notified on enqueues,
// physical reads and load cycles.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func defaultOptions() options {
	return options{
		mergeDistance:  DefaultMergeDistance,
		coalescePolicy: CoalesceAlways,
		logger:         NoopLogger(),
		metrics:        NoopMetricsCollector{},
	}
}
