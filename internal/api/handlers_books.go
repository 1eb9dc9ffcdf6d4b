// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/metrics"
	"github.com/tomtom215/bookwheel/internal/models"
)

// ListBooks returns every book in the catalog, ordered by ID.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, books, start)
}

// GetBook returns one book.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}
	book, err := h.store.GetBook(r.Context(), id)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, book, start)
}

// CreateBook adds a book to the catalog and refreshes the carousel pool.
// An existing ID answers 409.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var book models.Book
	if err := decodeJSON(w, r, &book); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&book); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx := r.Context()
	if _, err := h.store.GetBook(ctx, book.ID); err == nil {
		respondError(w, http.StatusConflict, "BOOK_EXISTS", "A book with that ID already exists", nil)
		return
	} else if !errors.Is(err, catalog.ErrBookNotFound) {
		respondCatalogError(w, err)
		return
	}

	if err := h.store.PutBook(ctx, &book); err != nil {
		respondCatalogError(w, err)
		return
	}
	logging.CtxInfo(ctx).Str("book_id", book.ID).Msg("Book added")
	h.refreshCarousel(ctx)

	respondSuccess(w, http.StatusCreated, book, start)
}

// DeleteBook removes a book from the catalog and refreshes the carousel pool.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteBook(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}
	logging.CtxInfo(r.Context()).Str("book_id", id).Msg("Book deleted")
	h.refreshCarousel(r.Context())

	respondSuccess(w, http.StatusOK, map[string]string{"book_id": id}, start)
}

// AddToWishlist puts a book on the wishlist.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	h.changeWishlist(w, r, true)
}

// RemoveFromWishlist takes a book off the wishlist.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	h.changeWishlist(w, r, false)
}

func (h *Handler) changeWishlist(w http.ResponseWriter, r *http.Request, add bool) {
	start := time.Now()

	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	var changed bool
	var err error
	if add {
		changed, err = h.store.AddToWishlist(ctx, id)
	} else {
		changed, err = h.store.RemoveFromWishlist(ctx, id)
	}
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	if changed {
		h.refreshCarousel(ctx)
	}

	respondSuccess(w, http.StatusOK, models.WishlistChange{
		BookID:     id,
		Wishlisted: add,
		Changed:    changed,
	}, start)
}

// RecordClick counts a click-through on a book. Repeat clicks from the same
// client on the same book inside the debounce window are acknowledged but
// not counted.
func (h *Handler) RecordClick(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}

	key := clientKey(r) + "|" + id
	if h.clicks != nil && h.clicks.IsDuplicate(key) {
		metrics.RecordClickDebounced()
		respondSuccess(w, http.StatusOK, models.ClickResult{BookID: id, Recorded: false}, start)
		return
	}

	if err := h.store.RecordClickThrough(r.Context(), id); err != nil {
		if h.clicks != nil {
			h.clicks.Remove(key)
		}
		respondCatalogError(w, err)
		return
	}
	h.refreshCarousel(r.Context())

	respondSuccess(w, http.StatusOK, models.ClickResult{BookID: id, Recorded: true}, start)
}

// bookIDParam reads and validates the {id} path parameter.
func bookIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	param := BookIDParam{ID: chi.URLParam(r, "id")}
	if apiErr := validateRequest(&param); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return "", false
	}
	return param.ID, true
}

// refreshCarousel reloads the session pool after a catalog change. While
// the wheel moves the session holds the change until it settles.
func (h *Handler) refreshCarousel(ctx context.Context) {
	if err := h.session.Reload(ctx); err != nil {
		logging.CtxWarn(ctx).Err(err).Msg("Carousel pool refresh failed")
	}
}

// clientKey identifies the caller for debouncing. RealIP has already
// rewritten RemoteAddr from proxy headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
