// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/tomtom215/bookwheel/internal/models"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 3)

	w := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var health models.HealthStatus
	resp := decodeResponse(t, w, &health)
	if resp.Status != "success" {
		t.Errorf("envelope status = %q, want success", resp.Status)
	}
	if health.Status != "healthy" {
		t.Errorf("health status = %q, want healthy", health.Status)
	}
	if !health.CatalogReachable || !health.CarouselRunning {
		t.Errorf("health = %+v, want catalog and carousel up", health)
	}
	if health.PoolSize != 3 {
		t.Errorf("PoolSize = %d, want 3", health.PoolSize)
	}
	if health.CarouselState != "idle" {
		t.Errorf("CarouselState = %q, want idle", health.CarouselState)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers on health endpoint")
	}
}

func TestBooks_ListAndGet(t *testing.T) {
	env := newTestEnv(t, 3)

	w := env.do(t, http.MethodGet, "/api/v1/books", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var books []models.Book
	decodeResponse(t, w, &books)
	if len(books) != 3 || books[0].ID != "b1" {
		t.Fatalf("books = %+v, want b1..b3", books)
	}

	w = env.do(t, http.MethodGet, "/api/v1/books/b2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var book models.Book
	decodeResponse(t, w, &book)
	if book.Title != "Book 2" {
		t.Errorf("Title = %q, want Book 2", book.Title)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
}

func TestBooks_GetErrors(t *testing.T) {
	env := newTestEnv(t, 1)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown book", "/api/v1/books/missing", http.StatusNotFound, ErrCodeBookNotFound},
		{"invalid id", "/api/v1/books/bad$id", http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, nil)
			assertError(t, w, tt.status, tt.code)
		})
	}
}

func TestBooks_Create(t *testing.T) {
	env := newTestEnv(t, 2)

	w := env.do(t, http.MethodPost, "/api/v1/books", map[string]interface{}{
		"id":     "new-1",
		"title":  "A New Book",
		"rating": 4.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}

	stored, err := env.store.GetBook(context.Background(), "new-1")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if stored.AddedAt == 0 {
		t.Error("AddedAt not stamped")
	}

	// The idle wheel accepts the new pool at once.
	env.waitFor(t, func() bool {
		snap, err := env.session.Snapshot(context.Background())
		return err == nil && snap.ItemCount == 3
	})

	w = env.do(t, http.MethodPost, "/api/v1/books", map[string]interface{}{
		"id":    "new-1",
		"title": "Duplicate",
	})
	assertError(t, w, http.StatusConflict, "BOOK_EXISTS")
}

func TestBooks_CreateValidation(t *testing.T) {
	env := newTestEnv(t, 1)

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"empty body", nil, ErrCodeBadRequest},
		{"malformed json", "{", ErrCodeBadRequest},
		{"unknown field", `{"id":"x","title":"t","color":"red"}`, ErrCodeBadRequest},
		{"missing title", map[string]interface{}{"id": "x"}, "VALIDATION_ERROR"},
		{"rating out of range", map[string]interface{}{"id": "x", "title": "t", "rating": 9}, "VALIDATION_ERROR"},
		{"bad id", map[string]interface{}{"id": "has space", "title": "t"}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/books", tt.body)
			assertError(t, w, http.StatusBadRequest, tt.code)
		})
	}
}

func TestBooks_Delete(t *testing.T) {
	env := newTestEnv(t, 3)

	w := env.do(t, http.MethodDelete, "/api/v1/books/b3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	env.waitFor(t, func() bool {
		snap, err := env.session.Snapshot(context.Background())
		return err == nil && snap.ItemCount == 2
	})

	w = env.do(t, http.MethodGet, "/api/v1/books/b3", nil)
	assertError(t, w, http.StatusNotFound, ErrCodeBookNotFound)
}

func TestBooks_Wishlist(t *testing.T) {
	env := newTestEnv(t, 2)

	steps := []struct {
		method  string
		changed bool
		listed  bool
	}{
		{http.MethodPost, true, true},
		{http.MethodPost, false, true},
		{http.MethodDelete, true, false},
		{http.MethodDelete, false, false},
	}
	for i, step := range steps {
		w := env.do(t, step.method, "/api/v1/books/b1/wishlist", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("step %d: status = %d, want 200", i, w.Code)
		}
		var change models.WishlistChange
		decodeResponse(t, w, &change)
		if change.Changed != step.changed || change.Wishlisted != step.listed {
			t.Errorf("step %d: change = %+v, want changed=%v wishlisted=%v", i, change, step.changed, step.listed)
		}
	}

	book, err := env.store.GetBook(context.Background(), "b1")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if book.WishlistCount != 1 {
		t.Errorf("WishlistCount = %d, want 1", book.WishlistCount)
	}

	w := env.do(t, http.MethodPost, "/api/v1/books/missing/wishlist", nil)
	assertError(t, w, http.StatusNotFound, ErrCodeBookNotFound)
}

func TestBooks_ClickDebounce(t *testing.T) {
	env := newTestEnv(t, 2)

	recorded := func() bool {
		w := env.do(t, http.MethodPost, "/api/v1/books/b2/click", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var res models.ClickResult
		decodeResponse(t, w, &res)
		return res.Recorded
	}

	if !recorded() {
		t.Error("first click not recorded")
	}
	if recorded() {
		t.Error("repeat click inside the window was recorded")
	}

	book, err := env.store.GetBook(context.Background(), "b2")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if book.ClickThroughCount != 1 {
		t.Errorf("ClickThroughCount = %d, want 1", book.ClickThroughCount)
	}
}

func TestBooks_ClickWithoutDebounce(t *testing.T) {
	hcfg := DefaultHandlerConfig()
	hcfg.ClickDebounce = 0
	env := newTestEnvWith(t, 1, testSessionConfig(), hcfg)

	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/v1/books/b1/click", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	}
	book, err := env.store.GetBook(context.Background(), "b1")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if book.ClickThroughCount != 3 {
		t.Errorf("ClickThroughCount = %d, want 3", book.ClickThroughCount)
	}
}

func TestBooks_ClickUnknownBookNotDebounced(t *testing.T) {
	env := newTestEnv(t, 1)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/api/v1/books/ghost/click", nil)
		assertError(t, w, http.StatusNotFound, ErrCodeBookNotFound)
	}
}
