// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/session"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBookNotFound       = "BOOK_NOT_FOUND"
	ErrCodeNotInPool          = "BOOK_NOT_IN_POOL"
	ErrCodeCarouselBusy       = "CAROUSEL_BUSY"
	ErrCodePoolEmpty          = "POOL_EMPTY"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
)

// respondSessionError maps a session command error to a status and code.
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrBusy):
		respondError(w, http.StatusConflict, ErrCodeCarouselBusy, "Carousel is not accepting that request in its current state", nil)
	case errors.Is(err, session.ErrEmptyPool):
		respondError(w, http.StatusConflict, ErrCodePoolEmpty, "Carousel has no books", nil)
	case errors.Is(err, session.ErrNotInPool):
		respondError(w, http.StatusNotFound, ErrCodeNotInPool, "Book is not on the carousel", nil)
	case errors.Is(err, session.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, "Index or step count out of range", nil)
	case errors.Is(err, session.ErrClosed):
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Carousel is shutting down", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Carousel did not respond in time", err)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Carousel command failed", err)
	}
}

// respondCatalogError maps a catalog store error to a status and code.
func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		respondError(w, http.StatusNotFound, ErrCodeBookNotFound, "Book not found", nil)
	case errors.Is(err, catalog.ErrInvalidBook):
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid book", err)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "A catalog error occurred", err)
	}
}
