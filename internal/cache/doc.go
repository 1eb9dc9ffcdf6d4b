// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package cache provides in-memory data structures used by the carousel service.

# Components

  - WeightTree: float64 Fenwick tree giving O(log n) cumulative-weight
    lookups, used by the selection sampler for repeated weighted draws
  - TimerQueue: due-time min-heap with FIFO ties, used by the virtual
    animation scheduler
  - LRU: generic least-recently-used cache with TTL, used by the API for
    stopped layout frames and click-through debouncing

# Thread Safety

All structures are safe for concurrent use.

# Usage Example

	tree := cache.NewWeightTreeFrom([]float64{1, 0, 2.5})
	idx := tree.Search(rng.Float64() * tree.Total())

	frames := cache.NewLRU[layout.Frame](256, time.Minute)
	frames.Add("800x600:3", frame)
*/
package cache
