package scanio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scanio/memory"
	"github.com/hupe1980/scanio/testutil"
)

func drain(t *testing.T, s *Stream) []byte {
	t.Helper()
	var out []byte
	for {
		window, err := s.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, window...)
	}
}

func TestBufferedInput_ZeroLengthStream(t *testing.T) {
	f := testutil.NewMockFile("empty", nil)
	in := New(f, memory.Default())
	defer in.Close()

	s, err := in.Enqueue(Region{Offset: 0, Length: 0})
	require.NoError(t, err)
	require.Equal(t, 0, in.Pending())

	// Drained from birth, no Load required, no I/O ever issued for it.
	window, err := s.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Empty(t, window)

	require.NoError(t, in.Load(context.Background(), LogTypeTest))
	require.Empty(t, f.ReadCalls())
	require.Empty(t, f.ReadVCalls())
}

func TestBufferedInput_UseRead(t *testing.T) {
	content := []byte("hello")
	f := testutil.NewMockFile("mock_name", content)
	in := New(f, memory.Default())
	defer in.Close()

	s, err := in.Enqueue(Region{Offset: 0, Length: 5})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeTest))

	require.Equal(t, []testutil.ReadCall{{Offset: 0, Length: 5}}, f.ReadCalls())
	require.Empty(t, f.ReadVCalls())
	require.Equal(t, content, drain(t, s))
}

func TestBufferedInput_UseVRead(t *testing.T) {
	content := []byte("hello")
	f := testutil.NewMockFile("mock_name", content)
	in := New(f, memory.Default(), WithVectorizedLoad())
	defer in.Close()

	s, err := in.Enqueue(Region{Offset: 0, Length: 5})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeTest))

	require.Empty(t, f.ReadCalls())
	require.Equal(t, []int{1}, f.ReadVCalls())
	require.Equal(t, content, drain(t, s))
}

func TestBufferedInput_WillMerge(t *testing.T) {
	content := []byte("hello world")
	f := testutil.NewMockFile("mock_name", content)
	in := New(f, memory.Default(), WithMergeDistance(10))
	defer in.Close()

	s1, err := in.Enqueue(Region{Offset: 0, Length: 5})
	require.NoError(t, err)
	s2, err := in.Enqueue(Region{Offset: 6, Length: 5})
	require.NoError(t, err)

	require.NoError(t, in.Load(context.Background(), LogTypeTest))

	// Gap of 1 <= distance 10: both requests ride one physical read.
	require.Equal(t, []testutil.ReadCall{{Offset: 0, Length: 11}}, f.ReadCalls())
	require.Equal(t, []byte("hello"), drain(t, s1))
	require.Equal(t, []byte("world"), drain(t, s2))
}

func TestBufferedInput_WontMerge(t *testing.T) {
	content := []byte("hello  world") // two spaces
	f := testutil.NewMockFile("mock_name", content)
	in := New(f, memory.Default(), WithMergeDistance(1))
	defer in.Close()

	s1, err := in.Enqueue(Region{Offset: 0, Length: 5})
	require.NoError(t, err)
	s2, err := in.Enqueue(Region{Offset: 7, Length: 5})
	require.NoError(t, err)

	require.NoError(t, in.Load(context.Background(), LogTypeTest))

	// Gap of 2 > distance 1: two physical reads.
	require.Equal(t, []testutil.ReadCall{
		{Offset: 0, Length: 5},
		{Offset: 7, Length: 5},
	}, f.ReadCalls())
	require.Equal(t, []byte("hello"), drain(t, s1))
	require.Equal(t, []byte("world"), drain(t, s2))
}

func TestBufferedInput_VectorizedBatchesAllRegions(t *testing.T) {
	rng := testutil.NewRNG(42)
	content := rng.Content(1 << 16)
	f := testutil.NewMockFile("vec", content)
	in := New(f, memory.Default(), WithVectorizedLoad())
	defer in.Close()

	ranges := rng.DisjointRanges(uint64(len(content)), 17, 512, 4096)
	require.NotEmpty(t, ranges)

	streams := make([]*Stream, len(ranges))
	for i, r := range ranges {
		s, err := in.Enqueue(Region{Offset: r.Offset, Length: r.Length})
		require.NoError(t, err)
		streams[i] = s
	}

	require.NoError(t, in.Load(context.Background(), LogTypeStripe))

	// One batch call carrying every descriptor, regardless of gaps.
	require.Empty(t, f.ReadCalls())
	require.Equal(t, []int{len(ranges)}, f.ReadVCalls())

	for i, r := range ranges {
		require.Equal(t, content[r.Offset:r.Offset+r.Length], drain(t, streams[i]))
	}
}

func TestBufferedInput_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"scalar", []Option{WithMergeDistance(64)}},
		{"scalar_no_merge", []Option{WithCoalescePolicy(CoalesceNever)}},
		{"vectorized", []Option{WithVectorizedLoad()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rng := testutil.NewRNG(7)
			content := rng.Content(1 << 15)
			f := testutil.NewMockFile("roundtrip", content)
			in := New(f, memory.NewElasticPool(), tc.opts...)
			defer in.Close()

			ranges := rng.DisjointRanges(uint64(len(content)), 25, 300, 200)
			require.NotEmpty(t, ranges)

			// Enqueue out of offset order; Load sorts internally.
			streams := make(map[int]*Stream, len(ranges))
			for _, i := range rng.Perm(len(ranges)) {
				r := ranges[i]
				s, err := in.Enqueue(Region{Offset: r.Offset, Length: r.Length})
				require.NoError(t, err)
				streams[i] = s
			}

			require.NoError(t, in.Load(context.Background(), LogTypeStripe))

			for i, r := range ranges {
				require.Equal(t, content[r.Offset:r.Offset+r.Length], drain(t, streams[i]),
					"range %d (%d,%d)", i, r.Offset, r.Length)
			}
		})
	}
}

func TestBufferedInput_EnqueueOutOfBounds(t *testing.T) {
	f := testutil.NewMockFile("small", []byte("0123456789"))
	in := New(f, memory.Default())
	defer in.Close()

	_, err := in.Enqueue(Region{Offset: 8, Length: 3})
	require.ErrorIs(t, err, ErrRegionOutOfBounds)

	_, err = in.Enqueue(Region{Offset: 11, Length: 0})
	require.ErrorIs(t, err, ErrRegionOutOfBounds)

	// Exactly at the end is fine.
	_, err = in.Enqueue(Region{Offset: 8, Length: 2})
	require.NoError(t, err)

	// Offset+Length overflow must not wrap around the bounds check.
	_, err = in.Enqueue(Region{Offset: ^uint64(0) - 1, Length: 4})
	require.ErrorIs(t, err, ErrRegionOutOfBounds)
}

func TestBufferedInput_LoadEmptyQueueIsNoop(t *testing.T) {
	f := testutil.NewMockFile("noop", []byte("abc"))
	in := New(f, memory.Default())
	defer in.Close()

	require.NoError(t, in.Load(context.Background(), LogTypeTest))
	require.NoError(t, in.Load(context.Background(), LogTypeTest))
	require.Empty(t, f.ReadCalls())
	require.Empty(t, f.ReadVCalls())
}

func TestBufferedInput_FailureIsolation(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"scalar", nil},
		{"vectorized", []Option{WithVectorizedLoad()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := testutil.NewMockFile("flaky", []byte("hello world"))
			f.FailReads = true
			in := New(f, memory.Default(), tc.opts...)
			defer in.Close()

			s1, err := in.Enqueue(Region{Offset: 0, Length: 5})
			require.NoError(t, err)
			s2, err := in.Enqueue(Region{Offset: 6, Length: 5})
			require.NoError(t, err)

			err = in.Load(context.Background(), LogTypeTest)
			require.Error(t, err)

			var re *ReadError
			require.ErrorAs(t, err, &re)
			require.Equal(t, "flaky", re.File)
			require.ErrorIs(t, err, testutil.ErrInjected)

			// No stream of the failed cycle is readable.
			_, err = s1.Next()
			require.ErrorIs(t, err, ErrNotLoaded)
			_, err = s2.Next()
			require.ErrorIs(t, err, ErrNotLoaded)
			require.Equal(t, 0, in.Pending())
		})
	}
}

func TestBufferedInput_CoalescePolicy(t *testing.T) {
	content := []byte("hello world")
	regions := []Region{{Offset: 0, Length: 5}, {Offset: 6, Length: 5}}

	load := func(t *testing.T, coalesce bool, opts ...Option) *testutil.MockFile {
		f := testutil.NewMockFile("policy", content)
		f.Coalesce = coalesce
		in := New(f, memory.Default(), append([]Option{WithMergeDistance(10)}, opts...)...)
		defer in.Close()
		for _, r := range regions {
			_, err := in.Enqueue(r)
			require.NoError(t, err)
		}
		require.NoError(t, in.Load(context.Background(), LogTypeTest))
		return f
	}

	t.Run("always merges regardless of hint", func(t *testing.T) {
		f := load(t, false)
		require.Len(t, f.ReadCalls(), 1)
	})

	t.Run("auto respects a reluctant file", func(t *testing.T) {
		f := load(t, false, WithCoalescePolicy(CoalesceAuto))
		require.Len(t, f.ReadCalls(), 2)
	})

	t.Run("auto merges a willing file", func(t *testing.T) {
		f := load(t, true, WithCoalescePolicy(CoalesceAuto))
		require.Len(t, f.ReadCalls(), 1)
	})

	t.Run("never splits everything", func(t *testing.T) {
		f := load(t, true, WithCoalescePolicy(CoalesceNever))
		require.Len(t, f.ReadCalls(), 2)
	})
}

func TestBufferedInput_SecondLoadCycle(t *testing.T) {
	content := []byte("abcdefghij")
	f := testutil.NewMockFile("cycles", content)
	in := New(f, memory.NewElasticPool())
	defer in.Close()

	s1, err := in.Enqueue(Region{Offset: 0, Length: 4})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeTest))
	require.Equal(t, []byte("abcd"), drain(t, s1))

	s2, err := in.Enqueue(Region{Offset: 4, Length: 6})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeTest))
	require.Equal(t, []byte("efghij"), drain(t, s2))
}

func TestBufferedInput_MetricsCollector(t *testing.T) {
	content := []byte("hello world")
	f := testutil.NewMockFile("metrics", content)
	mc := &BasicMetricsCollector{}
	in := New(f, memory.Default(), WithMergeDistance(10), WithMetricsCollector(mc))
	defer in.Close()

	_, err := in.Enqueue(Region{Offset: 0, Length: 5})
	require.NoError(t, err)
	_, err = in.Enqueue(Region{Offset: 6, Length: 5})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeStripe))

	require.Equal(t, int64(2), mc.EnqueueCount.Load())
	require.Equal(t, int64(10), mc.EnqueueBytes.Load())
	require.Equal(t, int64(1), mc.LoadCount.Load())
	require.Equal(t, int64(1), mc.ReadExtents.Load())
	require.Equal(t, int64(10), mc.BytesRequested.Load())
	require.Equal(t, int64(11), mc.BytesRead.Load()) // gap byte over-read
	require.Equal(t, int64(0), mc.LoadErrors.Load())
}

func TestBufferedInput_PageMetrics(t *testing.T) {
	rng := testutil.NewRNG(3)
	content := rng.Content(64 * PageSize)
	f := testutil.NewMockFile("pages", content)
	mc := NewPageMetricsCollector()
	// Distance spans the gap between the two requests, so the pages in
	// between are fetched without ever being requested.
	in := New(f, memory.Default(), WithMergeDistance(16*PageSize), WithMetricsCollector(mc))
	defer in.Close()

	_, err := in.Enqueue(Region{Offset: 0, Length: PageSize})
	require.NoError(t, err)
	_, err = in.Enqueue(Region{Offset: 8 * PageSize, Length: PageSize})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeStripe))

	require.Equal(t, uint64(2), mc.PagesRequested())
	require.Equal(t, uint64(9), mc.PagesFetched())
	require.InDelta(t, 4.5, mc.ReadAmplification(), 0.001)
}

func TestBufferedInput_StreamWindowSize(t *testing.T) {
	content := []byte("hello")
	f := testutil.NewMockFile("window", content)
	in := New(f, memory.Default(), WithStreamWindowSize(2))
	defer in.Close()

	s, err := in.Enqueue(Region{Offset: 0, Length: 5})
	require.NoError(t, err)
	require.NoError(t, in.Load(context.Background(), LogTypeTest))

	var windows [][]byte
	for {
		w, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		windows = append(windows, w)
	}
	require.Len(t, windows, 3)
	require.Equal(t, []byte("he"), windows[0])
	require.Equal(t, []byte("ll"), windows[1])
	require.Equal(t, []byte("o"), windows[2])
}
