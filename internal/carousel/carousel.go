// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import (
	"time"

	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/carousel/selection"
	"github.com/tomtom215/bookwheel/internal/models"
)

// Callbacks are the host-facing notifications. Any of them may be nil.
type Callbacks struct {
	// OnSpinStart fires when a timed or continuous spin begins.
	OnSpinStart func()

	// OnSpinComplete fires once when a spin or landing stops on index.
	OnSpinComplete func(index int)

	// OnBookSelected fires after a spin or landing completes and after a
	// nudge chain completes, with the book now featured.
	OnBookSelected func(book models.Book)
}

// Options configures a Carousel.
type Options struct {
	Config    Config
	Layout    layout.Config
	Scheduler Scheduler

	// Selector picks weighted spin targets. Nil uses the default policy.
	Selector *selection.Selector

	// Observer receives raw machine events in addition to the callbacks.
	Observer Observer

	Callbacks Callbacks
}

// Snapshot is the observable carousel state.
type Snapshot struct {
	State         State        `json:"state"`
	Angle         float64      `json:"angle"`
	SelectedIndex *int         `json:"selected_index"`
	TargetIndex   *int         `json:"target_index,omitempty"`
	ItemCount     int          `json:"item_count"`
	Book          *models.Book `json:"book,omitempty"`
	Chaining      bool         `json:"chaining"`

	// RemainingSteps counts chained nudges not yet started.
	RemainingSteps int `json:"remaining_steps,omitempty"`

	// MotionStartedAt is when the current motion began. Nil at rest.
	MotionStartedAt *time.Time `json:"motion_started_at,omitempty"`
}

// Carousel is the host surface over a pool of books: weighted spins,
// continuous spin and landing, nudges and chained moves, and layout.
// Like Machine, it must be driven from a single goroutine.
type Carousel struct {
	machine   *Machine
	chainer   *Chainer
	selector  *selection.Selector
	layoutCfg layout.Config
	callbacks Callbacks

	pool     []models.Book
	wishlist map[string]struct{}

	// sampler caches the pool's weights between draws. Nil until the
	// next draw after any pool or wishlist change.
	sampler *selection.Sampler
}

// New creates a carousel with an empty pool.
//
//nolint:gocritic // hugeParam: options are read once at construction
func New(opts Options) *Carousel {
	c := &Carousel{
		selector:  opts.Selector,
		layoutCfg: opts.Layout,
		callbacks: opts.Callbacks,
		wishlist:  map[string]struct{}{},
	}
	if c.selector == nil {
		c.selector = selection.NewSelector(nil, nil)
	}
	// The layout and the machine must agree on where the featured card sits.
	c.layoutCfg.SelectionAngle = opts.Config.SelectionAngle

	c.machine = NewMachine(opts.Config, opts.Scheduler, Observers(hostObserver{c}, opts.Observer))
	c.chainer = NewChainer(c.machine, opts.Scheduler, opts.Config.ChainStepDelay)
	return c
}

// hostObserver turns machine events into host callbacks.
type hostObserver struct {
	c *Carousel
}

func (h hostObserver) StateChanged(State, State) {}
func (h hostObserver) AngleChanged(float64) {}
func (h hostObserver) NudgeStarted(Direction) {}
func (h hostObserver) NudgeCompleted(int) {}

func (h hostObserver) SpinStarted(kind SpinKind, _ int) {
	if kind == SpinLand {
		return
	}
	if cb := h.c.callbacks.OnSpinStart; cb != nil {
		cb()
	}
}

func (h hostObserver) SpinCompleted(index int) {
	if cb := h.c.callbacks.OnSpinComplete; cb != nil {
		cb(index)
	}
	h.c.notifySelected(index)
}

func (c *Carousel) notifySelected(index int) {
	if cb := c.callbacks.OnBookSelected; cb != nil && index >= 0 && index < len(c.pool) {
		cb(c.pool[index])
	}
}

// Machine exposes the underlying state machine for read access.
func (c *Carousel) Machine() *Machine { return c.machine }

// Busy reports whether the wheel is moving or a chain is draining.
func (c *Carousel) Busy() bool {
	return c.machine.State().Busy() || c.chainer.Active()
}

// SetPool replaces the candidate pool. A pool with the same IDs in the
// same order only refreshes the book data and keeps the wheel where it
// is. Any other change resets the wheel to idle, and is refused while
// the wheel is busy.
func (c *Carousel) SetPool(books []models.Book) bool {
	pool := make([]models.Book, len(books))
	copy(pool, books)

	if sameIDs(c.pool, pool) {
		c.pool = pool
		c.sampler = nil
		return true
	}
	if c.Busy() {
		return false
	}
	c.chainer.Cancel()
	c.pool = pool
	c.sampler = nil
	c.machine.Reset(len(pool))
	return true
}

func sameIDs(a, b []models.Book) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// SetWishlist replaces the wishlist set used by the next weighted draw.
func (c *Carousel) SetWishlist(ids []string) {
	c.wishlist = models.WishlistSet(ids)
	c.sampler = nil
}

// Exclude drops the book with id from weighted draws until the pool or
// wishlist next changes. It reports whether the book is in the pool.
func (c *Carousel) Exclude(id string) bool {
	return c.draws().Exclude(id)
}

func (c *Carousel) draws() *selection.Sampler {
	if c.sampler == nil {
		c.sampler = c.selector.Sampler(c.pool, c.wishlist)
	}
	return c.sampler
}

// Pool returns a copy of the candidate pool.
func (c *Carousel) Pool() []models.Book {
	out := make([]models.Book, len(c.pool))
	copy(out, c.pool)
	return out
}

// Spin draws a weighted target and spins to it. ok is false for an empty
// pool or when the wheel cannot start a spin.
func (c *Carousel) Spin() (selection.Result, bool) {
	if c.chainer.Active() {
		return selection.Result{Index: -1}, false
	}
	st := c.machine.State()
	if st != StateIdle && st != StateStopped {
		return selection.Result{Index: -1}, false
	}
	res, ok := c.draws().Draw()
	if !ok {
		return res, false
	}
	return res, c.machine.StartSpin(res.Index)
}

// SpinTo spins to a specific index.
func (c *Carousel) SpinTo(index int) bool {
	if c.chainer.Active() {
		return false
	}
	return c.machine.StartSpin(index)
}

// StartContinuousSpin starts unbounded rotation.
func (c *Carousel) StartContinuousSpin() bool {
	if c.chainer.Active() {
		return false
	}
	return c.machine.StartContinuousSpin()
}

// StopAndLand lands a continuous spin on a weighted draw.
func (c *Carousel) StopAndLand() (selection.Result, bool) {
	if c.machine.State() != StateContinuous {
		return selection.Result{Index: -1}, false
	}
	res, ok := c.draws().Draw()
	if !ok {
		return res, false
	}
	return res, c.machine.StopAndLand(res.Index)
}

// StopAndLandAt lands a continuous spin on index.
func (c *Carousel) StopAndLandAt(index int) bool {
	return c.machine.StopAndLand(index)
}

// Nudge moves one slot in dir.
func (c *Carousel) Nudge(dir Direction) bool {
	return c.NudgeSteps(dir, 1)
}

// NudgeSteps moves steps slots in dir as one chain. OnBookSelected fires
// once at the end. Zero steps complete at once without motion.
func (c *Carousel) NudgeSteps(dir Direction, steps int) bool {
	if dir != Left && dir != Right {
		return false
	}
	return c.chainer.Step(dir, steps, c.chainDone)
}

// MoveToIndex brings index to the selection angle: by the shortest nudge
// chain when stopped, by a timed spin when idle.
func (c *Carousel) MoveToIndex(index int) bool {
	if index < 0 || index >= len(c.pool) || c.chainer.Active() {
		return false
	}
	switch c.machine.State() {
	case StateStopped:
		return c.chainer.MoveTo(index, c.chainDone)
	case StateIdle:
		return c.machine.StartSpin(index)
	default:
		return false
	}
}

// MoveToBook is MoveToIndex for a book ID.
func (c *Carousel) MoveToBook(id string) bool {
	idx := selection.FindIndex(c.pool, id)
	if idx < 0 {
		return false
	}
	return c.MoveToIndex(idx)
}

func (c *Carousel) chainDone() {
	if idx, ok := c.machine.SelectedIndex(); ok {
		c.notifySelected(idx)
	}
}

// Snapshot returns the observable state.
func (c *Carousel) Snapshot() Snapshot {
	s := Snapshot{
		State:     c.machine.State(),
		Angle:     NormalizeAngle(c.machine.Angle()),
		ItemCount: c.machine.ItemCount(),
		Chaining:  c.chainer.Active(),
	}
	if idx, ok := c.machine.SelectedIndex(); ok {
		s.SelectedIndex = &idx
		if idx < len(c.pool) {
			book := c.pool[idx]
			s.Book = &book
		}
	}
	if target, ok := c.machine.Target(); ok {
		s.TargetIndex = &target
	}
	if s.Chaining {
		s.RemainingSteps = c.chainer.Remaining()
	}
	if s.State.Busy() {
		started := c.machine.StartedAt()
		s.MotionStartedAt = &started
	}
	return s
}

// Layout computes the frame for the current angle in a width x height viewport.
func (c *Carousel) Layout(width, height float64) layout.Frame {
	selected, ok := c.machine.SelectedIndex()
	if !ok {
		selected = -1
	}
	return layout.Compute(layout.Input{
		Angle:         c.machine.Angle(),
		ItemCount:     c.machine.ItemCount(),
		Width:         width,
		Height:        height,
		Stopped:       c.machine.State() == StateStopped,
		SelectedIndex: selected,
	}, c.layoutCfg)
}

// LayoutConfig returns the geometry used by Layout.
func (c *Carousel) LayoutConfig() layout.Config { return c.layoutCfg }

// Close stops all motion and drops any chain.
func (c *Carousel) Close() {
	c.chainer.Cancel()
	c.machine.Close()
}
