// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/bookwheel/internal/metrics"
	"github.com/tomtom215/bookwheel/internal/models"
)

// InstrumentedStore records Prometheus timings and errors for every call
// to the wrapped store. ErrBookNotFound is a normal outcome and is not
// counted as an error.
type InstrumentedStore struct {
	next Store
}

// Instrument wraps a store with metrics.
func Instrument(next Store) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

func observe(operation string, start time.Time, err error) {
	if errors.Is(err, ErrBookNotFound) || errors.Is(err, ErrInvalidBook) {
		err = nil
	}
	metrics.RecordCatalogOperation(operation, time.Since(start), err)
}

// ListBooks implements Store.
func (s *InstrumentedStore) ListBooks(ctx context.Context) (books []models.Book, err error) {
	defer func(start time.Time) { observe("list_books", start, err) }(time.Now())
	return s.next.ListBooks(ctx)
}

// GetBook implements Store.
func (s *InstrumentedStore) GetBook(ctx context.Context, id string) (book *models.Book, err error) {
	defer func(start time.Time) { observe("get_book", start, err) }(time.Now())
	return s.next.GetBook(ctx, id)
}

// PutBook implements Store.
func (s *InstrumentedStore) PutBook(ctx context.Context, book *models.Book) (err error) {
	defer func(start time.Time) { observe("put_book", start, err) }(time.Now())
	return s.next.PutBook(ctx, book)
}

// DeleteBook implements Store.
func (s *InstrumentedStore) DeleteBook(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete_book", start, err) }(time.Now())
	return s.next.DeleteBook(ctx, id)
}

// WishlistIDs implements Store.
func (s *InstrumentedStore) WishlistIDs(ctx context.Context) (ids []string, err error) {
	defer func(start time.Time) { observe("wishlist_ids", start, err) }(time.Now())
	return s.next.WishlistIDs(ctx)
}

// AddToWishlist implements Store.
func (s *InstrumentedStore) AddToWishlist(ctx context.Context, id string) (added bool, err error) {
	defer func(start time.Time) { observe("add_to_wishlist", start, err) }(time.Now())
	return s.next.AddToWishlist(ctx, id)
}

// RemoveFromWishlist implements Store.
func (s *InstrumentedStore) RemoveFromWishlist(ctx context.Context, id string) (removed bool, err error) {
	defer func(start time.Time) { observe("remove_from_wishlist", start, err) }(time.Now())
	return s.next.RemoveFromWishlist(ctx, id)
}

// RecordImpression implements Store.
func (s *InstrumentedStore) RecordImpression(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("record_impression", start, err) }(time.Now())
	return s.next.RecordImpression(ctx, id)
}

// RecordClickThrough implements Store.
func (s *InstrumentedStore) RecordClickThrough(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("record_click_through", start, err) }(time.Now())
	return s.next.RecordClickThrough(ctx, id)
}

// Close implements Store.
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
