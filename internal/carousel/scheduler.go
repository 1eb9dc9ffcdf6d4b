// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import (
	"sync"
	"time"

	"github.com/tomtom215/bookwheel/internal/cache"
)

// Scheduler runs the machine's deferred work. Implementations must invoke
// callbacks one at a time on the goroutine that owns the machine.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// ScheduleFrame runs fn on the next animation frame with that frame's time.
	ScheduleFrame(fn func(now time.Time))

	// ScheduleAfter runs fn once d has elapsed.
	ScheduleAfter(d time.Duration, fn func())
}

// DefaultFrameInterval is roughly one 60 Hz display frame.
const DefaultFrameInterval = 16 * time.Millisecond

type virtualTask struct {
	frame func(time.Time)
	after func()
}

// VirtualScheduler is a Scheduler whose clock only moves when told to.
// Callbacks run synchronously inside Advance and RunUntilIdle.
type VirtualScheduler struct {
	mu            sync.Mutex
	now           time.Time
	frameInterval time.Duration
	queue         *cache.TimerQueue[virtualTask]
	executed      int
}

// NewVirtualScheduler creates a scheduler starting at start. A non-positive
// frameInterval uses DefaultFrameInterval.
func NewVirtualScheduler(start time.Time, frameInterval time.Duration) *VirtualScheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &VirtualScheduler{
		now:           start,
		frameInterval: frameInterval,
		queue:         cache.NewTimerQueue[virtualTask](),
	}
}

// Now returns the virtual time.
func (v *VirtualScheduler) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// ScheduleFrame queues fn for one frame interval from now.
func (v *VirtualScheduler) ScheduleFrame(fn func(time.Time)) {
	v.mu.Lock()
	due := v.now.Add(v.frameInterval)
	v.mu.Unlock()
	v.queue.Push(virtualTask{frame: fn}, due)
}

// ScheduleAfter queues fn for d from now. Negative d is treated as zero.
func (v *VirtualScheduler) ScheduleAfter(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	due := v.now.Add(d)
	v.mu.Unlock()
	v.queue.Push(virtualTask{after: fn}, due)
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way at its own due time. Callbacks scheduled while advancing
// run too if they fall inside the window.
func (v *VirtualScheduler) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		entry := v.queue.PopDue(target)
		if entry == nil {
			break
		}
		v.run(entry)
	}

	v.mu.Lock()
	v.now = target
	v.mu.Unlock()
}

// RunUntilIdle runs callbacks in due order until the queue is empty or
// maxSteps callbacks have run. It reports whether the queue drained.
// A continuous spin never drains.
func (v *VirtualScheduler) RunUntilIdle(maxSteps int) bool {
	for i := 0; i < maxSteps; i++ {
		entry := v.queue.Pop()
		if entry == nil {
			return true
		}
		v.run(entry)
	}
	return v.queue.Len() == 0
}

// Pending returns the number of queued callbacks.
func (v *VirtualScheduler) Pending() int {
	return v.queue.Len()
}

// Executed returns the number of callbacks run so far.
func (v *VirtualScheduler) Executed() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.executed
}

func (v *VirtualScheduler) run(entry *cache.TimerEntry[virtualTask]) {
	v.mu.Lock()
	if entry.Due.After(v.now) {
		v.now = entry.Due
	}
	now := v.now
	v.executed++
	v.mu.Unlock()

	if entry.Value.frame != nil {
		entry.Value.frame(now)
		return
	}
	entry.Value.after()
}
