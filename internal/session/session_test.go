// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/models"
	"github.com/tomtom215/bookwheel/internal/websocket"
)

// memStore is an in-memory catalog.Store.
type memStore struct {
	mu       sync.Mutex
	books    map[string]models.Book
	wishlist map[string]struct{}
	listErr  error
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{books: map[string]models.Book{}, wishlist: map[string]struct{}{}}
	for _, id := range ids {
		s.books[id] = models.Book{ID: id, Title: "Book " + id, Rating: 4, AddedAt: 1700000000000}
	}
	return s
}

func (m *memStore) ListBooks(context.Context) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetBook(_ context.Context, id string) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return &b, nil
}

func (m *memStore) PutBook(_ context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = *book
	return nil
}

func (m *memStore) DeleteBook(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	delete(m.wishlist, id)
	return nil
}

func (m *memStore) WishlistIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.wishlist))
	for id := range m.wishlist {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) AddToWishlist(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wishlist[id]; ok {
		return false, nil
	}
	m.wishlist[id] = struct{}{}
	return true, nil
}

func (m *memStore) RemoveFromWishlist(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wishlist[id]; !ok {
		return false, nil
	}
	delete(m.wishlist, id)
	return true, nil
}

func (m *memStore) RecordImpression(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return catalog.ErrBookNotFound
	}
	b.ImpressionCount++
	m.books[id] = b
	return nil
}

func (m *memStore) RecordClickThrough(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return catalog.ErrBookNotFound
	}
	b.ClickThroughCount++
	m.books[id] = b
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) impressions(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].ImpressionCount
}

// recorder captures broadcasts.
type recorder struct {
	mu       sync.Mutex
	messages []websocket.Message
}

func (r *recorder) Broadcast(messageType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, websocket.Message{Type: messageType, Data: data})
}

func (r *recorder) count(messageType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m.Type == messageType {
			n++
		}
	}
	return n
}

func (r *recorder) last(messageType string) (websocket.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].Type == messageType {
			return r.messages[i], true
		}
	}
	return websocket.Message{}, false
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Engine.SpinDuration = 60 * time.Millisecond
	cfg.Engine.LandDuration = 40 * time.Millisecond
	cfg.Engine.NudgeDuration = 20 * time.Millisecond
	cfg.Engine.ChainStepDelay = 5 * time.Millisecond
	cfg.FrameInterval = 2 * time.Millisecond
	cfg.Seed = 7
	return cfg
}

// startSession runs s.Serve until the test ends.
//
//nolint:gocritic // hugeParam: test helper
func startSession(t *testing.T, cfg Config, store catalog.Store) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(cfg, store, rec)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
			t.Error("session did not stop")
		}
	})

	waitFor(t, func() bool { return rec.count(websocket.MessageTypePool) > 0 })
	return s, rec
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func snapshot(t *testing.T, s *Session) carousel.Snapshot {
	t.Helper()
	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return snap
}

func waitStopped(t *testing.T, s *Session) carousel.Snapshot {
	t.Helper()
	var snap carousel.Snapshot
	waitFor(t, func() bool {
		snap = snapshot(t, s)
		return snap.State == carousel.StateStopped && !snap.Chaining
	})
	return snap
}

func TestSession_ServeLoadsPool(t *testing.T) {
	t.Parallel()

	store := newMemStore("a", "b", "c")
	s, rec := startSession(t, fastConfig(), store)

	snap := snapshot(t, s)
	if snap.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", snap.ItemCount)
	}
	if snap.State != carousel.StateIdle {
		t.Errorf("State = %v, want idle", snap.State)
	}
	msg, _ := rec.last(websocket.MessageTypePool)
	ev, ok := msg.Data.(PoolEvent)
	if !ok || ev.Books != 3 || !ev.Reset {
		t.Errorf("pool message = %+v", msg.Data)
	}
	if s.ID() == "" || s.String() != "carousel-session" {
		t.Errorf("ID() = %q, String() = %q", s.ID(), s.String())
	}
}

func TestSession_ServeFailsWhenCatalogFails(t *testing.T) {
	t.Parallel()

	store := newMemStore("a")
	store.listErr = errors.New("disk on fire")
	s := New(fastConfig(), store, &recorder{})

	err := s.Serve(context.Background())
	if err == nil || !errors.Is(err, store.listErr) {
		t.Errorf("Serve() error = %v, want wrapped list error", err)
	}
}

func TestSession_SpinRecordsImpression(t *testing.T) {
	t.Parallel()

	store := newMemStore("a", "b", "c")
	s, rec := startSession(t, fastConfig(), store)

	res, err := s.Spin(context.Background())
	if err != nil {
		t.Fatalf("Spin() error = %v", err)
	}
	if res.Book == nil || res.Index < 0 || res.Index > 2 {
		t.Fatalf("Spin() result = %+v", res)
	}

	snap := waitStopped(t, s)
	if snap.SelectedIndex == nil || *snap.SelectedIndex != res.Index {
		t.Errorf("SelectedIndex = %v, want %d", snap.SelectedIndex, res.Index)
	}

	waitFor(t, func() bool { return store.impressions(res.Book.ID) == 1 })
	if rec.count(websocket.MessageTypeFrame) == 0 {
		t.Error("no frame messages broadcast during spin")
	}
	msg, ok := rec.last(websocket.MessageTypeSelected)
	if !ok {
		t.Fatal("no selected message")
	}
	if ev := msg.Data.(SelectedEvent); ev.Book.ID != res.Book.ID || ev.Index != res.Index {
		t.Errorf("selected = %+v, want %s at %d", ev, res.Book.ID, res.Index)
	}

	// The pool picks up the new counter without resetting the wheel.
	waitFor(t, func() bool {
		pool, err := s.Pool(context.Background())
		return err == nil && pool[res.Index].ImpressionCount == 1
	})
	if snap := snapshot(t, s); snap.State != carousel.StateStopped {
		t.Errorf("State after refresh = %v, want stopped", snap.State)
	}
}

func TestSession_RefusesWhileBusy(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()
	cfg.Engine.SpinDuration = 2 * time.Second
	s, _ := startSession(t, cfg, newMemStore("a", "b", "c"))
	ctx := context.Background()

	if _, err := s.Spin(ctx); err != nil {
		t.Fatalf("Spin() error = %v", err)
	}
	if _, err := s.Spin(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("second Spin() error = %v, want ErrBusy", err)
	}
	if err := s.StartContinuous(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("StartContinuous() error = %v, want ErrBusy", err)
	}
	if err := s.Nudge(ctx, carousel.Left, 1); !errors.Is(err, ErrBusy) {
		t.Errorf("Nudge() error = %v, want ErrBusy", err)
	}
	if _, err := s.Land(ctx, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("Land() error = %v, want ErrBusy", err)
	}
}

func TestSession_EmptyPool(t *testing.T) {
	t.Parallel()

	s, _ := startSession(t, fastConfig(), newMemStore())
	ctx := context.Background()

	if _, err := s.Spin(ctx); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Spin() error = %v, want ErrEmptyPool", err)
	}
	if err := s.Nudge(ctx, carousel.Right, 1); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Nudge() error = %v, want ErrEmptyPool", err)
	}
	if _, err := s.Land(ctx, nil); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Land() error = %v, want ErrEmptyPool", err)
	}
}

func TestSession_NudgeAndMove(t *testing.T) {
	t.Parallel()

	store := newMemStore("a", "b", "c", "d", "e")
	s, _ := startSession(t, fastConfig(), store)
	ctx := context.Background()

	if err := s.SpinTo(ctx, 0); err != nil {
		t.Fatalf("SpinTo() error = %v", err)
	}
	waitStopped(t, s)

	// Left moves the index forward.
	if err := s.Nudge(ctx, carousel.Left, 2); err != nil {
		t.Fatalf("Nudge() error = %v", err)
	}
	snap := waitStopped(t, s)
	if snap.SelectedIndex == nil || *snap.SelectedIndex != 2 {
		t.Errorf("after Left x2 SelectedIndex = %v, want 2", snap.SelectedIndex)
	}
	waitFor(t, func() bool { return store.impressions("c") == 1 })

	if err := s.MoveToBook(ctx, "missing"); !errors.Is(err, ErrNotInPool) {
		t.Errorf("MoveToBook(missing) error = %v, want ErrNotInPool", err)
	}
	if err := s.MoveToBook(ctx, "e"); err != nil {
		t.Fatalf("MoveToBook(e) error = %v", err)
	}
	snap = waitStopped(t, s)
	if snap.Book == nil || snap.Book.ID != "e" {
		t.Errorf("featured = %+v, want e", snap.Book)
	}

	if err := s.Nudge(ctx, carousel.Right, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Nudge(-1) error = %v, want ErrInvalidArgument", err)
	}
	if err := s.SpinTo(ctx, 9); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SpinTo(9) error = %v, want ErrInvalidArgument", err)
	}
}

func TestSession_ContinuousAndLand(t *testing.T) {
	t.Parallel()

	s, _ := startSession(t, fastConfig(), newMemStore("a", "b", "c", "d"))
	ctx := context.Background()

	if _, err := s.Land(ctx, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("Land() while idle error = %v, want ErrBusy", err)
	}
	if err := s.StartContinuous(ctx); err != nil {
		t.Fatalf("StartContinuous() error = %v", err)
	}
	waitFor(t, func() bool { return snapshot(t, s).State == carousel.StateContinuous })

	bad := 9
	if _, err := s.Land(ctx, &bad); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Land(9) error = %v, want ErrInvalidArgument", err)
	}

	index := 1
	res, err := s.Land(ctx, &index)
	if err != nil {
		t.Fatalf("Land(1) error = %v", err)
	}
	if res.Index != 1 || res.Book == nil || res.Book.ID != "b" {
		t.Errorf("Land(1) result = %+v", res)
	}
	snap := waitStopped(t, s)
	if snap.SelectedIndex == nil || *snap.SelectedIndex != 1 {
		t.Errorf("SelectedIndex = %v, want 1", snap.SelectedIndex)
	}
}

func TestSession_Reload(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()
	cfg.Engine.SpinDuration = 2 * time.Second
	store := newMemStore("a", "b")
	s, rec := startSession(t, cfg, store)
	ctx := context.Background()

	_ = store.PutBook(ctx, &models.Book{ID: "c", Title: "Book c", AddedAt: 1700000000000})
	if _, err := store.AddToWishlist(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if n := snapshot(t, s).ItemCount; n != 3 {
		t.Errorf("ItemCount = %d, want 3", n)
	}
	msg, _ := rec.last(websocket.MessageTypePool)
	if ev := msg.Data.(PoolEvent); ev.Books != 3 || ev.Wishlist != 1 || !ev.Reset {
		t.Errorf("pool event = %+v", ev)
	}

	if _, err := s.Spin(ctx); err != nil {
		t.Fatalf("Spin() error = %v", err)
	}

	// Same books: refreshed in place even while spinning.
	if err := s.Reload(ctx); err != nil {
		t.Errorf("Reload() same pool error = %v", err)
	}
	msg, _ = rec.last(websocket.MessageTypePool)
	if ev := msg.Data.(PoolEvent); ev.Reset {
		t.Error("same-pool reload reset the wheel")
	}

}

func TestSession_ReloadDeferredUntilSettled(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()
	cfg.Engine.SpinDuration = 300 * time.Millisecond
	store := newMemStore("a", "b", "c")
	s, rec := startSession(t, cfg, store)
	ctx := context.Background()

	if _, err := s.Spin(ctx); err != nil {
		t.Fatalf("Spin() error = %v", err)
	}
	_ = store.DeleteBook(ctx, "b")
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload() while spinning error = %v", err)
	}
	if n := snapshot(t, s).ItemCount; n != 3 {
		t.Errorf("ItemCount while spinning = %d, want 3", n)
	}

	waitFor(t, func() bool { return snapshot(t, s).ItemCount == 2 })
	pool, err := s.Pool(ctx)
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	for _, b := range pool {
		if b.ID == "b" {
			t.Error("deleted book still on the wheel after it settled")
		}
	}
	msg, _ := rec.last(websocket.MessageTypePool)
	if ev := msg.Data.(PoolEvent); ev.Books != 2 || !ev.Reset {
		t.Errorf("pool event = %+v, want 2 books with reset", ev)
	}
}

func TestSession_DeletedSelectionDropped(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()
	cfg.Engine.SpinDuration = 300 * time.Millisecond
	store := newMemStore("a")
	s, _ := startSession(t, cfg, store)
	ctx := context.Background()

	if _, err := s.Spin(ctx); err != nil {
		t.Fatalf("Spin() error = %v", err)
	}
	// Removed from the catalog with no reload: the failed impression
	// write alone must take it off the wheel.
	_ = store.DeleteBook(ctx, "a")

	waitFor(t, func() bool { return snapshot(t, s).ItemCount == 0 })
}

func TestSession_LoopContextCarriesSessionID(t *testing.T) {
	t.Parallel()

	s, _ := startSession(t, fastConfig(), newMemStore("a"))

	var id string
	if err := s.Do(context.Background(), func(*carousel.Carousel) {
		id = logging.SessionIDFromContext(s.loopCtx)
	}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if id != s.ID() {
		t.Errorf("loop context session ID = %q, want %q", id, s.ID())
	}
}

func TestSession_Layout(t *testing.T) {
	t.Parallel()

	s, _ := startSession(t, fastConfig(), newMemStore("a", "b", "c"))

	frame, err := s.Layout(context.Background(), 800, 600)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if want := fastConfig().Layout.RadiusFraction * 600; frame.Radius != want {
		t.Errorf("Radius = %v, want %v", frame.Radius, want)
	}
	if len(frame.Cards) == 0 {
		t.Error("Layout() returned no cards")
	}
}

func TestSession_Closed(t *testing.T) {
	t.Parallel()

	s := New(fastConfig(), newMemStore("a"), &recorder{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	<-s.Done()

	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Snapshot() after close error = %v, want ErrClosed", err)
	}
	if err := s.Serve(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Serve() after close error = %v, want ErrClosed", err)
	}
}

func TestSession_DoHonorsContext(t *testing.T) {
	t.Parallel()

	// Not serving: the command can never be accepted.
	s := New(fastConfig(), newMemStore("a"), &recorder{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := s.Do(ctx, func(*carousel.Carousel) {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want context.DeadlineExceeded", err)
	}
}
