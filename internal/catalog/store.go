// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

// Package catalog stores books, the reader's wishlist, and the engagement
// counters the carousel weighs books by.
//
// The carousel never writes these counters; the session records
// impressions here when a book is featured and the API records
// click-throughs and wishlist changes.
package catalog

import (
	"context"
	"errors"

	"github.com/tomtom215/bookwheel/internal/models"
)

// Sentinel errors.
var (
	// ErrBookNotFound is returned when a book ID is not in the catalog.
	ErrBookNotFound = errors.New("book not found")

	// ErrInvalidBook is returned when a book fails validation.
	ErrInvalidBook = errors.New("invalid book")
)

// Store is the catalog collaborator used by the session and the API.
type Store interface {
	// ListBooks returns every book, ordered by ID.
	ListBooks(ctx context.Context) ([]models.Book, error)

	// GetBook returns one book or ErrBookNotFound.
	GetBook(ctx context.Context, id string) (*models.Book, error)

	// PutBook inserts or replaces a book.
	PutBook(ctx context.Context, book *models.Book) error

	// DeleteBook removes a book and its wishlist entry.
	DeleteBook(ctx context.Context, id string) error

	// WishlistIDs returns the IDs on the wishlist, ordered by ID.
	WishlistIDs(ctx context.Context) ([]string, error)

	// AddToWishlist adds a book to the wishlist. The book's WishlistCount
	// is incremented only when it was not already on the list. It reports
	// whether the wishlist changed.
	AddToWishlist(ctx context.Context, id string) (bool, error)

	// RemoveFromWishlist removes a book from the wishlist. It reports
	// whether the wishlist changed.
	RemoveFromWishlist(ctx context.Context, id string) (bool, error)

	// RecordImpression increments ImpressionCount.
	RecordImpression(ctx context.Context, id string) error

	// RecordClickThrough increments ClickThroughCount.
	RecordClickThrough(ctx context.Context, id string) error

	// Close releases the underlying database.
	Close() error
}
