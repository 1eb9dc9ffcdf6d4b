// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package carousel implements the recommendation wheel: a spin state machine
that owns a single wheel angle, a chainer that walks multi-step nudges, and
a host surface that ties both to a pool of books.

# State Machine

	idle ──StartSpin──> spinning ──(done)──> stopped
	  │                                      │  ^
	  └─StartContinuousSpin─> continuous     │  │
	                            │            │  │
	                StopAndLand └─> spinning ┘  │
	                                            │
	                   stopped ──Nudge──> nudging

Requests made in any other state are ignored and return false. A wheel with
no items ignores every request.

# Angles

Card i sits at wheelAngle + i*360/n. The featured card is the one at the
selection angle (40 degrees by default). A Right nudge rotates the wheel by
+1 slot and moves the selection to index-1; Left does the opposite.

# Time

All motion is driven through a Scheduler. Production code ticks frames
from a session goroutine; tests use VirtualScheduler and move time by hand:

	sched := carousel.NewVirtualScheduler(time.Unix(0, 0), 0)
	m := carousel.NewMachine(carousel.DefaultConfig(), sched, nil)
	m.Reset(8)
	m.StartSpin(5)
	sched.RunUntilIdle(1000)
	// m.State() == carousel.StateStopped, selected index 5

# Thread Safety

Nothing in this package is safe for concurrent use. The session package
owns each Carousel on a single goroutine.
*/
package carousel
