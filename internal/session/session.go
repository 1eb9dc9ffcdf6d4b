// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/carousel/selection"
	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/metrics"
	"github.com/tomtom215/bookwheel/internal/models"
	"github.com/tomtom215/bookwheel/internal/websocket"
)

// Sentinel errors returned by session commands.
var (
	// ErrClosed is returned once the session has shut down.
	ErrClosed = errors.New("session closed")

	// ErrBusy is returned when the carousel refuses a command in its
	// current state.
	ErrBusy = errors.New("carousel busy")

	// ErrEmptyPool is returned for motion commands on an empty pool.
	ErrEmptyPool = errors.New("carousel pool is empty")

	// ErrNotInPool is returned when a book ID is not in the pool.
	ErrNotInPool = errors.New("book not in carousel pool")

	// ErrInvalidArgument is returned for an out-of-range index or step count.
	ErrInvalidArgument = errors.New("invalid argument")
)

// storeTimeout bounds catalog writes made from the loop goroutine.
const storeTimeout = 2 * time.Second

// Broadcaster fans messages out to live clients. Satisfied by *websocket.Hub.
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// Config holds the session settings.
type Config struct {
	Engine        carousel.Config
	Layout        layout.Config
	Weights       selection.WeightConfig
	FrameInterval time.Duration
	Seed          uint64
}

// DefaultConfig returns the engine defaults at the default frame rate.
func DefaultConfig() Config {
	return Config{
		Engine:        carousel.DefaultConfig(),
		Layout:        layout.DefaultConfig(),
		Weights:       selection.DefaultWeightConfig(),
		FrameInterval: carousel.DefaultFrameInterval,
	}
}

// Session owns one Carousel on a single goroutine. Commands are closures
// posted to that goroutine; animation frames run on its ticker.
type Session struct {
	id     string
	cfg    Config
	store  catalog.Store
	hub    Broadcaster
	logger zerolog.Logger
	events *logging.EventLogger

	cmds  chan func()
	sched *loopScheduler
	car   *carousel.Carousel

	// loopCtx is the context of the running loop. Loop goroutine only.
	loopCtx context.Context

	// reloadPending is set when a pool change arrived while the wheel was
	// busy. Loop goroutine only.
	reloadPending bool

	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a session over store. Nothing runs until Serve is called.
//
//nolint:gocritic // hugeParam: config is read once at construction
func New(cfg Config, store catalog.Store, hub Broadcaster) *Session {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = carousel.DefaultFrameInterval
	}
	id := logging.GenerateSessionID()
	s := &Session{
		id:      id,
		cfg:     cfg,
		store:   store,
		hub:     hub,
		logger:  logging.With().Str("component", "session").Str("session_id", id).Logger(),
		events:  logging.NewEventLogger(id),
		cmds:    make(chan func()),
		closed:  make(chan struct{}),
		loopCtx: context.Background(),
	}
	s.sched = newLoopScheduler(s.closed)

	rng := selection.Locked(selection.NewRNG(cfg.Seed))
	s.car = carousel.New(carousel.Options{
		Config:    cfg.Engine,
		Layout:    cfg.Layout,
		Scheduler: s.sched,
		Selector:  selection.NewSelector(selection.NewWeigher(cfg.Weights), rng),
		Observer:  observer{s},
		Callbacks: carousel.Callbacks{
			OnBookSelected: s.bookSelected,
		},
	})
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// LayoutConfig returns the carousel geometry. It never changes after New.
func (s *Session) LayoutConfig() layout.Config { return s.car.LayoutConfig() }

// String implements fmt.Stringer for suture.
func (s *Session) String() string { return "carousel-session" }

// Serve implements suture.Service. It loads the pool from the catalog and
// then runs the loop until ctx is canceled, which closes the session.
func (s *Session) Serve(ctx context.Context) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}

	s.loopCtx = logging.ContextWithLogger(logging.ContextWithSessionID(ctx, s.id), logging.WithComponent("session"))
	books, wishlist, err := s.fetch(ctx)
	if err != nil {
		return fmt.Errorf("load carousel pool: %w", err)
	}
	s.applyPool(books, wishlist)
	s.logger.Info().Int("books", len(books)).Dur("frame_interval", s.cfg.FrameInterval).Msg("Carousel session started")

	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		var tick <-chan time.Time
		if s.sched.hasFrames() {
			if ticker == nil {
				ticker = time.NewTicker(s.cfg.FrameInterval)
			}
			tick = ticker.C
		} else if ticker != nil {
			ticker.Stop()
			ticker = nil
		}

		select {
		case <-ctx.Done():
			s.close()
			s.logger.Info().Msg("Carousel session stopped")
			return ctx.Err()
		case fn := <-s.cmds:
			fn()
		case fn := <-s.sched.timers:
			fn()
		case now := <-tick:
			s.sched.runFrames(now)
		}
		s.applyPendingReload()
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.car.Close()
		close(s.closed)
	})
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

// Do runs fn on the loop goroutine and waits for it to return. fn must not
// retain c.
func (s *Session) Do(ctx context.Context, fn func(c *carousel.Carousel)) error {
	done := make(chan struct{})
	cmd := func() {
		defer close(done)
		fn(s.car)
	}

	select {
	case s.cmds <- cmd:
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the observable carousel state.
func (s *Session) Snapshot(ctx context.Context) (carousel.Snapshot, error) {
	var snap carousel.Snapshot
	err := s.Do(ctx, func(c *carousel.Carousel) {
		snap = c.Snapshot()
	})
	return snap, err
}

// Layout computes the frame for the current angle in a width x height viewport.
func (s *Session) Layout(ctx context.Context, width, height float64) (layout.Frame, error) {
	var frame layout.Frame
	err := s.Do(ctx, func(c *carousel.Carousel) {
		frame = c.Layout(width, height)
	})
	return frame, err
}

// Pool returns a copy of the candidate pool.
func (s *Session) Pool(ctx context.Context) ([]models.Book, error) {
	var pool []models.Book
	err := s.Do(ctx, func(c *carousel.Carousel) {
		pool = c.Pool()
	})
	return pool, err
}

// Spin draws a weighted target and spins to it.
func (s *Session) Spin(ctx context.Context) (selection.Result, error) {
	var res selection.Result
	var cmdErr error
	err := s.Do(ctx, func(c *carousel.Carousel) {
		if c.Machine().ItemCount() == 0 {
			cmdErr = ErrEmptyPool
			return
		}
		r, ok := c.Spin()
		if !ok {
			cmdErr = s.refused(c, "spin")
			return
		}
		res = s.recordDraw(r, c.Machine().ItemCount())
	})
	if err != nil {
		return selection.Result{Index: -1}, err
	}
	return res, cmdErr
}

// SpinTo spins to index.
func (s *Session) SpinTo(ctx context.Context, index int) error {
	return s.command(ctx, "spin_to", func(c *carousel.Carousel) (bool, error) {
		if index < 0 || index >= c.Machine().ItemCount() {
			return false, ErrInvalidArgument
		}
		return c.SpinTo(index), nil
	})
}

// StartContinuous starts unbounded rotation.
func (s *Session) StartContinuous(ctx context.Context) error {
	return s.command(ctx, "continuous", func(c *carousel.Carousel) (bool, error) {
		return c.StartContinuousSpin(), nil
	})
}

// Land stops a continuous spin. A nil index lands on a weighted draw.
func (s *Session) Land(ctx context.Context, index *int) (selection.Result, error) {
	res := selection.Result{Index: -1}
	var cmdErr error
	err := s.Do(ctx, func(c *carousel.Carousel) {
		n := c.Machine().ItemCount()
		switch {
		case n == 0:
			cmdErr = ErrEmptyPool
		case index != nil:
			if *index < 0 || *index >= n {
				cmdErr = ErrInvalidArgument
				return
			}
			if !c.StopAndLandAt(*index) {
				cmdErr = s.refused(c, "land")
				return
			}
			res.Index = *index
			if pool := c.Pool(); *index < len(pool) {
				res.Book = &pool[*index]
			}
		default:
			r, ok := c.StopAndLand()
			if !ok {
				cmdErr = s.refused(c, "land")
				return
			}
			res = s.recordDraw(r, n)
		}
	})
	if err != nil {
		return selection.Result{Index: -1}, err
	}
	return res, cmdErr
}

// Nudge moves steps slots in dir as one chain.
func (s *Session) Nudge(ctx context.Context, dir carousel.Direction, steps int) error {
	return s.command(ctx, "nudge", func(c *carousel.Carousel) (bool, error) {
		if steps < 0 {
			return false, ErrInvalidArgument
		}
		return c.NudgeSteps(dir, steps), nil
	})
}

// MoveToBook brings the book with id to the selection angle.
func (s *Session) MoveToBook(ctx context.Context, id string) error {
	return s.command(ctx, "move", func(c *carousel.Carousel) (bool, error) {
		if selection.FindIndex(c.Pool(), id) < 0 {
			return false, ErrNotInPool
		}
		return c.MoveToBook(id), nil
	})
}

// command runs a boolean carousel command and maps a refusal to ErrBusy.
func (s *Session) command(ctx context.Context, name string, fn func(c *carousel.Carousel) (bool, error)) error {
	var cmdErr error
	err := s.Do(ctx, func(c *carousel.Carousel) {
		if c.Machine().ItemCount() == 0 {
			cmdErr = ErrEmptyPool
			return
		}
		ok, err := fn(c)
		if err != nil {
			cmdErr = err
			return
		}
		if !ok {
			cmdErr = s.refused(c, name)
		}
	})
	if err != nil {
		return err
	}
	return cmdErr
}

// Reload refreshes the pool and wishlist from the catalog. A pool with the
// same books in the same order is refreshed in place at any time. Any
// other change made while the wheel is moving is deferred: the catalog is
// read again and applied as soon as the wheel settles.
func (s *Session) Reload(ctx context.Context) error {
	books, wishlist, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	return s.Do(ctx, func(c *carousel.Carousel) {
		if s.applyPool(books, wishlist) {
			s.reloadPending = false
			return
		}
		s.reloadPending = true
		s.events.ReloadDeferred(c.Machine().State().String())
		metrics.RecordReloadDeferred()
	})
}

// applyPendingReload applies a deferred reload once the wheel is neither
// moving nor chaining. Loop goroutine only.
func (s *Session) applyPendingReload() {
	if !s.reloadPending || s.car.Busy() {
		return
	}
	s.reloadPending = false

	ctx, cancel := context.WithTimeout(s.loopCtx, storeTimeout)
	defer cancel()
	books, wishlist, err := s.fetch(ctx)
	if err != nil {
		logging.CtxErr(ctx, err).Msg("Deferred pool reload failed")
		return
	}
	s.applyPool(books, wishlist)
}

func (s *Session) fetch(ctx context.Context) ([]models.Book, []string, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list books: %w", err)
	}
	wishlist, err := s.store.WishlistIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list wishlist: %w", err)
	}
	return books, wishlist, nil
}

// applyPool installs a pool on the loop goroutine and announces it.
func (s *Session) applyPool(books []models.Book, wishlist []string) bool {
	before := s.car.Machine().Generation()
	if !s.car.SetPool(books) {
		return false
	}
	s.car.SetWishlist(wishlist)

	metrics.SetPoolSize(len(books))
	s.events.PoolReloaded(len(books), len(wishlist))
	s.hub.Broadcast(websocket.MessageTypePool, PoolEvent{
		Books:    len(books),
		Wishlist: len(wishlist),
		Reset:    s.car.Machine().Generation() != before,
	})
	return true
}

func (s *Session) refused(c *carousel.Carousel, command string) error {
	s.events.CommandRefused(command, c.Machine().State().String())
	metrics.RecordCommandRefused(command)
	return ErrBusy
}

// recordDraw logs a fallback draw and detaches the result from the pool.
//
//nolint:gocritic // hugeParam: result is copied once per draw
func (s *Session) recordDraw(r selection.Result, poolSize int) selection.Result {
	if r.Fallback != selection.FallbackNone {
		s.events.SelectionFallback(string(r.Fallback), poolSize)
		metrics.RecordSelectionFallback(string(r.Fallback))
	}
	if r.Book != nil {
		book := *r.Book
		r.Book = &book
	}
	return r
}

// bookSelected runs on the loop goroutine when motion settles on a book.
//
//nolint:gocritic // hugeParam: signature fixed by carousel.Callbacks
func (s *Session) bookSelected(book models.Book) {
	index, ok := s.car.Machine().SelectedIndex()
	if !ok {
		index = -1
	}
	s.events.BookSelected(book.ID, index)
	metrics.RecordBookSelected()
	s.hub.Broadcast(websocket.MessageTypeSelected, SelectedEvent{Index: index, Book: book})

	ctx, cancel := context.WithTimeout(s.loopCtx, storeTimeout)
	defer cancel()
	if err := s.store.RecordImpression(ctx, book.ID); err != nil {
		s.events.ImpressionFailed(book.ID, err)
		if errors.Is(err, catalog.ErrBookNotFound) {
			// Gone from the catalog: never draw it again, and drop it
			// from the wheel once motion settles.
			s.car.Exclude(book.ID)
			s.reloadPending = true
		}
		return
	}
	updated, err := s.store.GetBook(ctx, book.ID)
	if err != nil {
		s.events.ImpressionFailed(book.ID, err)
		return
	}
	s.refreshBook(updated)
}

// refreshBook swaps in the stored record so the next draw sees the new
// counters. The pool keeps its order, so the wheel does not reset.
func (s *Session) refreshBook(book *models.Book) {
	pool := s.car.Pool()
	idx := selection.FindIndex(pool, book.ID)
	if idx < 0 {
		return
	}
	pool[idx] = *book
	s.car.SetPool(pool)
}
