// Package generator provides the seedable randomness behind every mock dataset.
// A fixed seed makes generated series reproducible in tests.
package generator

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source produces random numbers for dataset generators.
type Source interface {
	// IntBetween returns an integer in [lo, hi], both inclusive.
	IntBetween(lo, hi int) int

	// Uniform returns a float in [lo, hi).
	Uniform(lo, hi float64) float64
}

// Rand is a Source guarded for concurrent use by request handlers.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source. A zero seed seeds from the clock.
func New(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

func (r *Rand) IntBetween(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.Intn(hi-lo+1)
}

func (r *Rand) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.Float64()*(hi-lo)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
