package motion

import "math/rand/v2"

// Rand is the random source used by the core. *rand.Rand from math/rand/v2
// satisfies it, so tests can pass a seeded generator.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// GlobalRand returns the process-wide random source.
func GlobalRand() Rand {
	return globalRand{}
}

// randInt returns an integer in [lo, hi], inclusive.
func randInt(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func chance(r Rand, p float64) bool {
	return r.Float64() < p
}
