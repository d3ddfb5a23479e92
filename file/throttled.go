package file

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps a ReadFile and charges every physically read byte against
// a shared rate limiter. Use one limiter across all files of a tenant to
// bound its aggregate scan bandwidth.
type Throttled struct {
	inner   ReadFile
	limiter *rate.Limiter
}

// NewThrottled wraps inner with limiter. A nil limiter disables throttling.
func NewThrottled(inner ReadFile, limiter *rate.Limiter) *Throttled {
	return &Throttled{inner: inner, limiter: limiter}
}

// ReadAt implements ReadFile.
func (f *Throttled) ReadAt(ctx context.Context, p []byte, off uint64) (int, error) {
	if err := f.wait(ctx, len(p)); err != nil {
		return 0, err
	}
	return f.inner.ReadAt(ctx, p, off)
}

// ReadV implements ReadFile.
func (f *Throttled) ReadV(ctx context.Context, segs []Segment) error {
	total := 0
	for _, seg := range segs {
		total += len(seg.Data)
	}
	if err := f.wait(ctx, total); err != nil {
		return err
	}
	return f.inner.ReadV(ctx, segs)
}

// wait blocks until n bytes of budget are available. Requests larger than
// the burst are charged in burst-sized installments.
func (f *Throttled) wait(ctx context.Context, n int) error {
	if f.limiter == nil || n == 0 {
		return nil
	}
	burst := f.limiter.Burst()
	if f.limiter.Limit() == rate.Inf || burst <= 0 {
		return nil
	}
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := f.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Size implements ReadFile.
func (f *Throttled) Size() uint64 { return f.inner.Size() }

// Name implements ReadFile.
func (f *Throttled) Name() string { return f.inner.Name() }

// ShouldCoalesce implements ReadFile. Throttling makes every saved round
// trip count double, so the inner preference is passed through unchanged.
func (f *Throttled) ShouldCoalesce() bool { return f.inner.ShouldCoalesce() }

// NaturalReadSize implements ReadFile.
func (f *Throttled) NaturalReadSize() uint64 { return f.inner.NaturalReadSize() }
