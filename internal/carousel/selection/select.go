// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package selection

import (
	"github.com/tomtom215/bookwheel/internal/models"
)

// Fallback describes why a draw did not use proportional sampling.
type Fallback string

const (
	// FallbackNone means the draw was proportional to weight.
	FallbackNone Fallback = ""

	// FallbackSingle means the pool had exactly one book.
	FallbackSingle Fallback = "single"

	// FallbackUniform means every book was wishlisted and the draw was uniform.
	FallbackUniform Fallback = "uniform"
)

// Result is the outcome of one draw.
type Result struct {
	Book     *models.Book
	Index    int
	Weight   float64
	Fallback Fallback
}

// Selector draws books with a fixed policy and random source.
type Selector struct {
	weigher *Weigher
	rng     RNG
}

// NewSelector creates a selector. A nil rng uses NewRNG(DefaultSeed).
func NewSelector(weigher *Weigher, rng RNG) *Selector {
	if weigher == nil {
		weigher = NewWeigher(DefaultWeightConfig())
	}
	if rng == nil {
		rng = NewRNG(DefaultSeed)
	}
	return &Selector{weigher: weigher, rng: rng}
}

// Weigher returns the selector's weigher.
func (s *Selector) Weigher() *Weigher {
	return s.weigher
}

// Sampler indexes books for repeated draws with the selector's weigher and
// random source.
func (s *Selector) Sampler(books []models.Book, wishlist map[string]struct{}) *Sampler {
	return NewSampler(s.weigher, books, wishlist, s.rng)
}

// Select draws one book from books. ok is false only for an empty pool.
// The returned Book points into books.
func (s *Selector) Select(books []models.Book, wishlist map[string]struct{}) (Result, bool) {
	switch len(books) {
	case 0:
		return Result{Index: -1}, false
	case 1:
		return Result{
			Book:     &books[0],
			Index:    0,
			Weight:   s.weigher.Weight(books[0], wishlist, books[0].ImpressionCount),
			Fallback: FallbackSingle,
		}, true
	}

	weights := s.weigher.Weights(books, wishlist)
	idx, fallback := pick(weights, s.rng)
	return Result{
		Book:     &books[idx],
		Index:    idx,
		Weight:   weights[idx],
		Fallback: fallback,
	}, true
}

// pick walks the cumulative weights once. weights must be non-empty.
func pick(weights []float64, rng RNG) (int, Fallback) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.IntN(len(weights)), FallbackUniform
	}

	r := rng.Float64() * total
	cumulative := 0.0
	lastPositive := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		lastPositive = i
		if r < cumulative {
			return i, FallbackNone
		}
	}
	// Rounding left r at or past the final sum.
	return lastPositive, FallbackNone
}

// SelectWeightedRandom draws one book with the default policy. It returns
// nil only for an empty pool.
func SelectWeightedRandom(books []models.Book, wishlist map[string]struct{}, rng RNG) *models.Book {
	res, ok := NewSelector(defaultWeigher, rng).Select(books, wishlist)
	if !ok {
		return nil
	}
	return res.Book
}

// FindIndex returns the position of the book with id, or -1.
func FindIndex(books []models.Book, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}
