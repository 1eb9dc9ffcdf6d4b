// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package cache

import (
	"math"
	"sync"
)

// WeightTree is a Fenwick tree (Binary Indexed Tree) over float64 weights.
// It backs repeated weighted draws over a pool that rarely changes:
//   - Point updates: Set the weight of one entry
//   - Prefix sums: Cumulative weight up to an entry
//   - Search: Locate the entry whose cumulative bucket contains a value
//
// Time Complexity:
//   - Set: O(log n)
//   - PrefixSum: O(log n)
//   - Search: O(log n)
//
// Compared to a linear cumulative walk:
//   - Walk per draw: O(n)
//   - WeightTree per draw: O(log n), O(n log n) build
//
// Negative and non-finite weights are stored as zero.
type WeightTree struct {
	mu     sync.RWMutex
	tree   []float64 // 1-indexed for cleaner bit manipulation
	values []float64 // raw values, 0-indexed
	n      int
}

// NewWeightTree creates a tree with n zero-weight entries.
func NewWeightTree(n int) *WeightTree {
	if n < 0 {
		n = 0
	}
	return &WeightTree{
		tree:   make([]float64, n+1),
		values: make([]float64, n),
		n:      n,
	}
}

// NewWeightTreeFrom builds a tree from existing weights in O(n).
func NewWeightTreeFrom(weights []float64) *WeightTree {
	wt := NewWeightTree(len(weights))
	for i, w := range weights {
		w = sanitizeWeight(w)
		wt.values[i] = w
		wt.tree[i+1] += w
		if parent := (i + 1) + ((i + 1) & -(i + 1)); parent <= wt.n {
			wt.tree[parent] += wt.tree[i+1]
		}
	}
	return wt
}

func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// Set replaces the weight at index i (0-indexed). Out-of-range indexes are ignored.
func (wt *WeightTree) Set(i int, w float64) {
	if i < 0 || i >= wt.n {
		return
	}
	w = sanitizeWeight(w)

	wt.mu.Lock()
	defer wt.mu.Unlock()

	delta := w - wt.values[i]
	wt.values[i] = w
	for j := i + 1; j <= wt.n; j += j & (-j) {
		wt.tree[j] += delta
	}
}

// Get returns the weight at index i (0-indexed).
func (wt *WeightTree) Get(i int) float64 {
	if i < 0 || i >= wt.n {
		return 0
	}
	wt.mu.RLock()
	defer wt.mu.RUnlock()
	return wt.values[i]
}

// PrefixSum returns the sum of weights from index 0 to i (inclusive, 0-indexed).
func (wt *WeightTree) PrefixSum(i int) float64 {
	if i < 0 {
		return 0
	}
	if i >= wt.n {
		i = wt.n - 1
	}

	wt.mu.RLock()
	defer wt.mu.RUnlock()

	var sum float64
	for j := i + 1; j > 0; j -= j & (-j) {
		sum += wt.tree[j]
	}
	return sum
}

// Total returns the sum of all weights.
func (wt *WeightTree) Total() float64 {
	return wt.PrefixSum(wt.n - 1)
}

// Size returns the number of entries.
func (wt *WeightTree) Size() int {
	return wt.n
}

// Search returns the smallest index whose prefix sum is strictly greater
// than r, i.e. the entry owning the half-open bucket that contains r.
// Zero-weight entries own empty buckets and are never returned. It
// returns -1 when r is negative or not below the total.
func (wt *WeightTree) Search(r float64) int {
	if wt.n == 0 || r < 0 || math.IsNaN(r) {
		return -1
	}

	wt.mu.RLock()
	defer wt.mu.RUnlock()

	step := 1
	for step<<1 <= wt.n {
		step <<= 1
	}

	pos := 0
	remaining := r
	for ; step > 0; step >>= 1 {
		next := pos + step
		if next <= wt.n && wt.tree[next] <= remaining {
			pos = next
			remaining -= wt.tree[next]
		}
	}

	// pos is the count of entries whose cumulative weight is <= r.
	if pos >= wt.n {
		return -1
	}
	// Float drift can land on a zero-weight entry; walk to the next real one.
	for pos < wt.n && wt.values[pos] == 0 {
		pos++
	}
	if pos >= wt.n {
		return -1
	}
	return pos
}
