// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package cache

import (
	"sync"
	"time"
)

// TimerEntry is an entry in a TimerQueue.
type TimerEntry[T any] struct {
	Value T
	Due   time.Time
	seq   uint64 // insertion order, breaks ties between equal Due times
}

// TimerQueue is a min-heap of entries ordered by due time, then by
// insertion order. Entries with the same due time pop in FIFO order.
// It provides O(log n) Push and Pop, and O(1) Peek.
//
// This is used for:
//   - Virtual-time animation scheduling in tests and simulations
type TimerQueue[T any] struct {
	mu   sync.Mutex
	heap []*TimerEntry[T]
	seq  uint64
}

// NewTimerQueue creates an empty queue.
func NewTimerQueue[T any]() *TimerQueue[T] {
	return &TimerQueue[T]{heap: make([]*TimerEntry[T], 0)}
}

// Push adds an entry due at the given time.
func (q *TimerQueue[T]) Push(value T, due time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	q.heap = append(q.heap, &TimerEntry[T]{Value: value, Due: due, seq: q.seq})
	q.bubbleUp(len(q.heap) - 1)
}

// Peek returns the earliest entry without removing it, or nil.
func (q *TimerQueue[T]) Peek() *TimerEntry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return nil
	}
	return q.heap[0]
}

// Pop removes and returns the earliest entry, or nil.
func (q *TimerQueue[T]) Pop() *TimerEntry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popMin()
}

// PopDue removes and returns the earliest entry if it is due at or
// before t, or nil.
func (q *TimerQueue[T]) PopDue(t time.Time) *TimerEntry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 || q.heap[0].Due.After(t) {
		return nil
	}
	return q.popMin()
}

// Len returns the number of pending entries.
func (q *TimerQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Clear removes all entries.
func (q *TimerQueue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.heap = q.heap[:0]
}

// Internal heap operations (must be called with lock held)

func (q *TimerQueue[T]) less(i, j int) bool {
	a, b := q.heap[i], q.heap[j]
	if a.Due.Equal(b.Due) {
		return a.seq < b.seq
	}
	return a.Due.Before(b.Due)
}

func (q *TimerQueue[T]) popMin() *TimerEntry[T] {
	n := len(q.heap) - 1
	if n < 0 {
		return nil
	}
	entry := q.heap[0]
	q.heap[0] = q.heap[n]
	q.heap[n] = nil
	q.heap = q.heap[:n]
	if n > 0 {
		q.bubbleDown(0)
	}
	return entry
}

func (q *TimerQueue[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			break
		}
		q.heap[i], q.heap[parent] = q.heap[parent], q.heap[i]
		i = parent
	}
}

func (q *TimerQueue[T]) bubbleDown(i int) {
	n := len(q.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && q.less(left, smallest) {
			smallest = left
		}
		if right < n && q.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}

		q.heap[i], q.heap[smallest] = q.heap[smallest], q.heap[i]
		i = smallest
	}
}
