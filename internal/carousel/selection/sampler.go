// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package selection

import (
	"github.com/tomtom215/bookwheel/internal/cache"
	"github.com/tomtom215/bookwheel/internal/models"
)

// Sampler draws repeatedly from a pool whose weights were computed once.
// It must be rebuilt when the pool, the wishlist, or the counters change.
type Sampler struct {
	books []models.Book
	index map[string]int
	tree  *cache.WeightTree
	rng   RNG
}

// NewSampler scores books once and indexes the weights.
func NewSampler(weigher *Weigher, books []models.Book, wishlist map[string]struct{}, rng RNG) *Sampler {
	if weigher == nil {
		weigher = defaultWeigher
	}
	if rng == nil {
		rng = NewRNG(DefaultSeed)
	}

	index := make(map[string]int, len(books))
	for i := range books {
		index[books[i].ID] = i
	}

	return &Sampler{
		books: books,
		index: index,
		tree:  cache.NewWeightTreeFrom(weigher.Weights(books, wishlist)),
		rng:   rng,
	}
}

// Len returns the pool size.
func (s *Sampler) Len() int {
	return len(s.books)
}

// Weight returns the cached weight at index i.
func (s *Sampler) Weight(i int) float64 {
	return s.tree.Get(i)
}

// TotalWeight returns the sum of cached weights.
func (s *Sampler) TotalWeight() float64 {
	return s.tree.Total()
}

// Exclude zeroes the weight of the book with id. It reports whether the
// book is in the pool.
func (s *Sampler) Exclude(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.tree.Set(i, 0)
	return true
}

// Draw returns one book following the same rules as Selector.Select.
func (s *Sampler) Draw() (Result, bool) {
	switch len(s.books) {
	case 0:
		return Result{Index: -1}, false
	case 1:
		return Result{Book: &s.books[0], Index: 0, Weight: s.tree.Get(0), Fallback: FallbackSingle}, true
	}

	total := s.tree.Total()
	if total <= 0 {
		i := s.rng.IntN(len(s.books))
		return Result{Book: &s.books[i], Index: i, Fallback: FallbackUniform}, true
	}

	i := s.tree.Search(s.rng.Float64() * total)
	if i < 0 {
		// r rounded onto the total; take the last weighted entry.
		i = len(s.books) - 1
		for i > 0 && s.tree.Get(i) <= 0 {
			i--
		}
	}
	return Result{Book: &s.books[i], Index: i, Weight: s.tree.Get(i)}, true
}
