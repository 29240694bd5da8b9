// Package randsrc provides the seeded, shareable random source used by every
// randomized operator in an evolutionary run.
package randsrc

import (
	"math/rand"
	"sync"
	"time"
)

// Source is a uniform random provider.
type Source interface {
	// Intn returns a uniform int in [0, n). It panics if n <= 0.
	Intn(n int) int
	// IntRange returns a uniform int in [min, max). It panics if max <= min.
	IntRange(min, max int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
	// Perm returns a random permutation of [0, n).
	Perm(n int) []int
	// UniqueInts returns count distinct ints drawn from [min, max).
	UniqueInts(count, min, max int) []int
}

// Locked is a Source backed by a single *rand.Rand guarded by a mutex, so
// draws stay reproducible under a fixed seed even when shared.
type Locked struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// New creates a Locked source. A zero seed is replaced with the current time.
func New(seed int64) *Locked {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Locked{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the source was created with.
func (l *Locked) Seed() int64 {
	return l.seed
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *Locked) IntRange(min, max int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.rng.Intn(max-min)
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *Locked) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Perm(n)
}

// UniqueInts panics if the range holds fewer than count values.
func (l *Locked) UniqueInts(count, min, max int) []int {
	if max-min < count {
		panic("randsrc: range too small for unique draw")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	perm := l.rng.Perm(max - min)[:count]
	for i := range perm {
		perm[i] += min
	}
	return perm
}
