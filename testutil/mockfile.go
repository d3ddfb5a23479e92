package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/scanio/file"
)

// ErrInjected is the failure returned by a MockFile armed with FailReads.
var ErrInjected = errors.New("injected read failure")

// ReadCall records one physical ReadAt issued against a MockFile.
type ReadCall struct {
	Offset uint64
	Length uint64
}

// MockFile is a file.ReadFile over in-memory content that records every
// physical read, for asserting how requests were coalesced. Setting
// FailReads makes all subsequent reads fail with ErrInjected.
type MockFile struct {
	FileName  string
	Content   []byte
	Coalesce  bool
	FailReads bool

	mu        sync.Mutex
	readCalls []ReadCall
	readVLens []int
}

var _ file.ReadFile = (*MockFile)(nil)

// NewMockFile creates a MockFile over content.
func NewMockFile(name string, content []byte) *MockFile {
	return &MockFile{FileName: name, Content: content, Coalesce: true}
}

// ReadAt implements file.ReadFile.
func (m *MockFile) ReadAt(_ context.Context, p []byte, off uint64) (int, error) {
	m.mu.Lock()
	m.readCalls = append(m.readCalls, ReadCall{Offset: off, Length: uint64(len(p))})
	fail := m.FailReads
	m.mu.Unlock()

	if fail {
		return 0, ErrInjected
	}
	if off+uint64(len(p)) > uint64(len(m.Content)) {
		return 0, fmt.Errorf("mock read at %d+%d: %w", off, len(p), io.ErrUnexpectedEOF)
	}
	return copy(p, m.Content[off:]), nil
}

// ReadV implements file.ReadFile. It records one batch call with the
// segment count and fills each target buffer.
func (m *MockFile) ReadV(_ context.Context, segs []file.Segment) error {
	m.mu.Lock()
	m.readVLens = append(m.readVLens, len(segs))
	fail := m.FailReads
	m.mu.Unlock()

	if fail {
		return ErrInjected
	}
	for _, seg := range segs {
		if seg.Offset+uint64(len(seg.Data)) > uint64(len(m.Content)) {
			return fmt.Errorf("mock readv at %d+%d: %w", seg.Offset, len(seg.Data), io.ErrUnexpectedEOF)
		}
		copy(seg.Data, m.Content[seg.Offset:])
	}
	return nil
}

// Size implements file.ReadFile.
func (m *MockFile) Size() uint64 { return uint64(len(m.Content)) }

// Name implements file.ReadFile.
func (m *MockFile) Name() string { return m.FileName }

// ShouldCoalesce implements file.ReadFile.
func (m *MockFile) ShouldCoalesce() bool { return m.Coalesce }

// NaturalReadSize implements file.ReadFile.
func (m *MockFile) NaturalReadSize() uint64 { return file.DefaultNaturalReadSize }

// ReadCalls returns the recorded single-range reads in order.
func (m *MockFile) ReadCalls() []ReadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReadCall(nil), m.readCalls...)
}

// ReadVCalls returns the segment count of each recorded batch read.
func (m *MockFile) ReadVCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.readVLens...)
}
