// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import "time"

// PlanPath returns the direction and number of single-slot nudges that
// take the selection from current to target the short way around a wheel
// of n cards. A tie at exactly n/2 goes Left. Equal indexes, or n <= 0,
// give zero steps.
func PlanPath(current, target, n int) (Direction, int) {
	if n <= 0 {
		return Left, 0
	}
	forward := WrapIndex(target-current, n) // index increases: Left
	if forward == 0 {
		return Left, 0
	}
	backward := n - forward // index decreases: Right
	if backward < forward {
		return Right, backward
	}
	return Left, forward
}

// Chainer walks several nudges in a row. It keeps an explicit FIFO of
// pending steps, issues one nudge at a time, and fires the chain's
// completion callback once, after the last step lands.
type Chainer struct {
	m     *Machine
	sched Scheduler
	delay time.Duration

	queue      []Direction
	onComplete func()
	active     bool
	chain      uint64 // identifies the running chain; bumped on finish and cancel
	machineGen uint64 // machine generation the chain started in
}

// NewChainer creates a chainer driving m. stepDelay is the pause between steps.
func NewChainer(m *Machine, sched Scheduler, stepDelay time.Duration) *Chainer {
	if stepDelay < 0 {
		stepDelay = 0
	}
	return &Chainer{m: m, sched: sched, delay: stepDelay}
}

// Active reports whether a chain is draining. A chain whose machine was
// reset or closed is dropped here.
func (c *Chainer) Active() bool {
	if c.active && c.m.Generation() != c.machineGen {
		c.Cancel()
	}
	return c.active
}

// Remaining returns the number of steps not yet issued.
func (c *Chainer) Remaining() int { return len(c.queue) }

// MoveTo nudges from the machine's current selection to target by the
// shortest path. A target equal to the selection completes at once with
// no motion. It returns false when nothing is selected, target is out of
// range, or a chain is already running.
func (c *Chainer) MoveTo(target int, onComplete func()) bool {
	current, ok := c.m.SelectedIndex()
	if !ok || c.m.State() != StateStopped {
		return false
	}
	if target < 0 || target >= c.m.ItemCount() {
		return false
	}
	dir, steps := PlanPath(current, target, c.m.ItemCount())
	return c.Step(dir, steps, onComplete)
}

// Step queues steps nudges in dir. Zero steps fire onComplete immediately
// with no motion. It returns false for negative steps, while a chain is
// running, when the machine is not stopped, or when the machine refuses
// the first nudge.
func (c *Chainer) Step(dir Direction, steps int, onComplete func()) bool {
	if c.Active() || steps < 0 || c.m.State() != StateStopped {
		return false
	}
	if steps == 0 {
		if onComplete != nil {
			onComplete()
		}
		return true
	}

	c.queue = make([]Direction, steps)
	for i := range c.queue {
		c.queue[i] = dir
	}
	c.onComplete = onComplete
	c.active = true
	c.chain++
	c.machineGen = c.m.Generation()

	if !c.issue() {
		c.Cancel()
		return false
	}
	return true
}

// Cancel drops the running chain without firing its callback.
func (c *Chainer) Cancel() {
	c.queue = nil
	c.onComplete = nil
	c.active = false
	c.chain++
}

// issue pops the next step and hands it to the machine.
func (c *Chainer) issue() bool {
	dir := c.queue[0]
	c.queue = c.queue[1:]
	chain := c.chain
	return c.m.Nudge(dir, func() { c.stepDone(chain) })
}

func (c *Chainer) stepDone(chain uint64) {
	if chain != c.chain {
		return
	}
	if len(c.queue) == 0 {
		done := c.onComplete
		c.queue = nil
		c.onComplete = nil
		c.active = false
		c.chain++
		if done != nil {
			done()
		}
		return
	}

	c.sched.ScheduleAfter(c.delay, func() {
		if chain != c.chain {
			return
		}
		if !c.issue() {
			// The machine was reset or closed under the chain.
			c.Cancel()
		}
	})
}
