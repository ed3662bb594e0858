package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
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

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*(maxVal-minVal)
	}
}

// Keys returns n key values drawn from [0, distinct), in runs of random
// length up to maxRun. Consecutive runs may repeat a value.
func (r *RNG) Keys(n, distinct, maxRun int) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int32, 0, n)
	for len(out) < n {
		v := int32(r.rand.Intn(distinct))
		run := 1 + r.rand.Intn(maxRun)
		for j := 0; j < run && len(out) < n; j++ {
			out = append(out, v)
		}
	}
	return out
}

// Shots returns n shots with trace counts in [minTraces, maxTraces] on a
// regular source grid.
func (r *RNG) Shots(n, minTraces, maxTraces int) []ShotSpec {
	shots := Shots(n, 1)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range shots {
		shots[i].Traces = minTraces + r.rand.Intn(maxTraces-minTraces+1)
	}
	return shots
}
