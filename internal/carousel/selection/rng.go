// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package selection

import (
	"math/rand/v2"
	"sync"
)

// DefaultSeed is used when a zero seed is configured.
const DefaultSeed = 42

// RNG is the random source used for sampling.
// *rand.Rand from math/rand/v2 satisfies it.
type RNG interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64

	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRNG returns a deterministic generator for seed. A zero seed selects DefaultSeed.
func NewRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // selection randomness is not security sensitive
}

// lockedRNG serializes access to a non-thread-safe source.
type lockedRNG struct {
	mu  sync.Mutex
	rng RNG
}

// Locked wraps rng so it can be shared between goroutines.
func Locked(rng RNG) RNG {
	if _, ok := rng.(*lockedRNG); ok {
		return rng
	}
	return &lockedRNG{rng: rng}
}

func (l *lockedRNG) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRNG) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.IntN(n)
}
