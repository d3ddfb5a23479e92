package scanio

import (
	"io"

	"github.com/hupe1980/scanio/memory"
)

type streamState uint8

const (
	streamUnmaterialized streamState = iota
	streamReady
	streamExhausted
)

// Stream is the lazy, pull-based handle returned per enqueued region.
//
// A stream is single-pass and non-restartable. It starts unmaterialized;
// a successful Load on the owning BufferedInput moves it to ready, and pulls
// drain it to exhausted. Exhaustion is idempotent: once Next has returned
// io.EOF, it returns io.EOF forever.
//
// Windows returned by Next alias the load cycle's buffer. They stay valid
// until Close is called on the stream or on the owning BufferedInput,
// whichever comes first.
type Stream struct {
	region Region
	state  streamState
	view   *memory.Buffer
	pos    int
	window int
}

func newStream(region Region, window int) *Stream {
	return &Stream{region: region, window: window}
}

// newExhaustedStream returns the pre-drained stream handed out for
// zero-length regions. It never touches the pool or the file.
func newExhaustedStream(region Region) *Stream {
	return &Stream{region: region, state: streamExhausted}
}

// Region returns the region this stream was enqueued for.
func (s *Stream) Region() Region { return s.region }

// Loaded reports whether the stream has been materialized. Zero-length
// streams are born materialized.
func (s *Stream) Loaded() bool { return s.state != streamUnmaterialized }

// Next returns the next window of the stream's bytes.
//
// By default the whole region is returned as a single window; a positive
// window size configured on the BufferedInput caps each pull. After the final
// window every call returns (nil, io.EOF). Pulling before Load completed
// returns ErrNotLoaded.
func (s *Stream) Next() ([]byte, error) {
	switch s.state {
	case streamUnmaterialized:
		return nil, ErrNotLoaded
	case streamExhausted:
		return nil, io.EOF
	}

	data := s.view.Bytes()[s.pos:]
	if s.window > 0 && len(data) > s.window {
		data = data[:s.window]
	}
	s.pos += len(data)
	if s.pos == s.view.Len() {
		s.state = streamExhausted
	}
	return data, nil
}

// Close releases the stream's view into the load cycle's buffer. Windows
// previously returned by Next must not be used afterwards. Close is
// idempotent and safe on streams that were never materialized.
func (s *Stream) Close() error {
	if s.view != nil {
		s.view.Release()
		s.view = nil
	}
	s.state = streamExhausted
	return nil
}

// bind materializes the stream with a view over exactly its region's bytes.
func (s *Stream) bind(view *memory.Buffer) {
	s.view = view
	s.pos = 0
	s.state = streamReady
}
