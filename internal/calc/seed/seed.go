// Package seed builds the explicit random sources used by the mock
// generators, so a stored seed replays the same result.
package seed

import "math/rand/v2"

// New returns a PCG-backed generator for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fresh seeds stay below 2^53 so browsers can echo them back exactly.
const maxFresh = 1 << 53

// Resolve returns the caller's seed, or a fresh one when it is nil.
func Resolve(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return rand.Uint64N(maxFresh)
}
