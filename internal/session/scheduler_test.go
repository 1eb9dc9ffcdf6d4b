// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package session

import (
	"testing"
	"time"
)

func TestLoopScheduler_RunFrames(t *testing.T) {
	t.Parallel()

	l := newLoopScheduler(make(chan struct{}))
	var order []int
	l.ScheduleFrame(func(time.Time) {
		order = append(order, 1)
		l.ScheduleFrame(func(time.Time) { order = append(order, 3) })
	})
	l.ScheduleFrame(func(time.Time) { order = append(order, 2) })

	if !l.hasFrames() {
		t.Fatal("hasFrames() = false with queued frames")
	}
	if n := l.runFrames(time.Now()); n != 2 {
		t.Errorf("first runFrames() = %d, want 2", n)
	}
	if len(order) != 2 {
		t.Fatalf("frames scheduled during a tick ran early: %v", order)
	}
	if n := l.runFrames(time.Now()); n != 1 {
		t.Errorf("second runFrames() = %d, want 1", n)
	}
	if order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
	if l.hasFrames() {
		t.Error("hasFrames() = true after draining")
	}
}

func TestLoopScheduler_ScheduleAfterPostsToLoop(t *testing.T) {
	t.Parallel()

	l := newLoopScheduler(make(chan struct{}))
	ran := false
	l.ScheduleAfter(time.Millisecond, func() { ran = true })

	select {
	case fn := <-l.timers:
		fn()
	case <-time.After(time.Second):
		t.Fatal("delayed callback never posted")
	}
	if !ran {
		t.Error("posted callback did not run")
	}
}

func TestLoopScheduler_ScheduleAfterDroppedWhenClosed(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	l := newLoopScheduler(done)
	close(done)
	l.ScheduleAfter(time.Millisecond, func() { t.Error("callback ran after close") })

	time.Sleep(50 * time.Millisecond)
	select {
	case <-l.timers:
		t.Error("callback posted after close")
	default:
	}
}
