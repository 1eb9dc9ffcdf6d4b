// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package session

import (
	"time"
)

// loopScheduler is the wall-clock carousel.Scheduler behind a session.
//
// Frame callbacks are queued by the loop goroutine and drained by the
// loop's ticker. Delayed callbacks run on a timer goroutine only long
// enough to post the callback back into the loop, so every callback
// still executes on the goroutine that owns the carousel.
type loopScheduler struct {
	frames []func(time.Time)
	timers chan func()
	done   <-chan struct{}
	now    func() time.Time
}

func newLoopScheduler(done <-chan struct{}) *loopScheduler {
	return &loopScheduler{
		timers: make(chan func()),
		done:   done,
		now:    time.Now,
	}
}

// Now implements carousel.Scheduler.
func (l *loopScheduler) Now() time.Time {
	return l.now()
}

// ScheduleFrame implements carousel.Scheduler. Loop goroutine only.
func (l *loopScheduler) ScheduleFrame(fn func(now time.Time)) {
	l.frames = append(l.frames, fn)
}

// ScheduleAfter implements carousel.Scheduler. The callback is dropped if
// the session closes first.
func (l *loopScheduler) ScheduleAfter(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		select {
		case l.timers <- fn:
		case <-l.done:
		}
	})
}

// hasFrames reports whether a frame callback is waiting for the next tick.
func (l *loopScheduler) hasFrames() bool {
	return len(l.frames) > 0
}

// runFrames drains the queued frame callbacks. Frames scheduled while
// draining wait for the next tick.
func (l *loopScheduler) runFrames(now time.Time) int {
	batch := l.frames
	l.frames = nil
	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}
