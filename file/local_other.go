//go:build !linux

package file

import "context"

func (f *Local) readV(ctx context.Context, segs []Segment) error {
	return readVSequential(ctx, f, segs)
}
