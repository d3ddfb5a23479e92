//go:build linux

package file

import (
	"context"

	"golang.org/x/sys/unix"
)

// readV coalesces runs of exactly contiguous segments into iovecs and
// issues one preadv per run.
func (f *Local) readV(ctx context.Context, segs []Segment) error {
	for i := 0; i < len(segs); {
		if err := ctx.Err(); err != nil {
			return err
		}

		iovs := [][]byte{segs[i].Data}
		want := len(segs[i].Data)
		end := segs[i].Offset + uint64(len(segs[i].Data))

		j := i + 1
		for j < len(segs) && segs[j].Offset == end {
			iovs = append(iovs, segs[j].Data)
			want += len(segs[j].Data)
			end += uint64(len(segs[j].Data))
			j++
		}

		n, err := unix.Preadv(int(f.f.Fd()), iovs, int64(segs[i].Offset))
		if err != nil {
			return err
		}
		if err := checkFull(f.name, segs[i].Offset, want, n); err != nil {
			return err
		}
		i = j
	}
	return nil
}
