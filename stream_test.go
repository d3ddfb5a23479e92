package scanio

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scanio/memory"
)

func TestStream_NotLoaded(t *testing.T) {
	s := newStream(Region{Offset: 0, Length: 5}, 0)
	require.False(t, s.Loaded())

	_, err := s.Next()
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestStream_SingleWindow(t *testing.T) {
	s := newStream(Region{Offset: 0, Length: 5}, 0)
	s.bind(memory.NewBuffer([]byte("hello")))
	require.True(t, s.Loaded())

	window, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), window)

	// Idempotent exhaustion.
	for range 3 {
		window, err = s.Next()
		require.ErrorIs(t, err, io.EOF)
		require.Empty(t, window)
	}
}

func TestStream_ZeroLength(t *testing.T) {
	s := newExhaustedStream(Region{Offset: 42, Length: 0})
	require.True(t, s.Loaded())

	window, err := s.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Empty(t, window)
}

func TestStream_WindowedPulls(t *testing.T) {
	s := newStream(Region{Offset: 0, Length: 7}, 3)
	s.bind(memory.NewBuffer([]byte("abcdefg")))

	var got []byte
	pulls := 0
	for {
		window, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		pulls++
		got = append(got, window...)
	}
	require.Equal(t, 3, pulls)
	require.Equal(t, []byte("abcdefg"), got)
}

func TestStream_Close(t *testing.T) {
	buf := memory.NewBuffer([]byte("data"))
	s := newStream(Region{Offset: 0, Length: 4}, 0)
	s.bind(buf.Slice(0, 4))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent

	_, err := s.Next()
	require.ErrorIs(t, err, io.EOF)

	// Never-materialized streams close cleanly too.
	require.NoError(t, newStream(Region{Offset: 0, Length: 1}, 0).Close())
}
