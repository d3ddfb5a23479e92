package testutil

import (
	"math/rand"
	"sync"
)

// RNG is a seeded, thread-safe random number generator. Reusing the same
// seed reproduces a failing case exactly.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Content returns n pseudo-random bytes.
func (r *RNG) Content(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(r.rand.Intn(256))
	}
	return data
}

// Range is an (offset, length) pair produced by the region generators.
type Range struct {
	Offset uint64
	Length uint64
}

// DisjointRanges generates count non-overlapping ranges within a file of
// fileSize bytes, in ascending offset order. Each range is 1..maxLen bytes
// and consecutive ranges are separated by 0..maxGap gap bytes. Generation
// stops early if the file runs out.
func (r *RNG) DisjointRanges(fileSize uint64, count, maxLen, maxGap int) []Range {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Range
	off := uint64(0)
	for len(out) < count {
		off += uint64(r.rand.Intn(maxGap + 1))
		length := uint64(1 + r.rand.Intn(maxLen))
		if off+length > fileSize {
			break
		}
		out = append(out, Range{Offset: off, Length: length})
		off += length
	}
	return out
}
