// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package models

import "time"

// Book is a catalog entry as the recommendation carousel sees it.
//
// The engagement counters are owned by the catalog store. The carousel
// reads them to weight its selection and never writes them back; wishlist
// membership is not a field here, it is derived from the wishlist set the
// caller passes alongside the pool.
type Book struct {
	// ID is the stable catalog identifier.
	ID string `json:"id" validate:"required,bookid"`

	// Title is the display title.
	Title string `json:"title" validate:"required,max=512"`

	// Author is the display author line.
	Author string `json:"author,omitempty" validate:"max=512"`

	// Genres lists the catalog genres for the book.
	Genres []string `json:"genres,omitempty" validate:"max=16,dive,max=64"`

	// CoverURL points at the cover image rendered on the card.
	CoverURL string `json:"cover_url,omitempty" validate:"omitempty,url"`

	// Summary is the curated blurb shown under the featured card.
	Summary string `json:"summary,omitempty" validate:"max=4096"`

	// Rating is the average reader rating (0.0-5.0).
	Rating float64 `json:"rating" validate:"min=0,max=5"`

	// ImpressionCount is how many times the book was featured.
	ImpressionCount int `json:"impression_count" validate:"min=0"`

	// ClickThroughCount is how many times a reader opened the book from the carousel.
	ClickThroughCount int `json:"click_through_count" validate:"min=0"`

	// WishlistCount is how many times the book was added to a wishlist.
	WishlistCount int `json:"wishlist_count" validate:"min=0"`

	// AddedAt is when the book entered the catalog, in epoch milliseconds.
	AddedAt int64 `json:"added_at" validate:"min=0"`
}

// AddedTime returns AddedAt as a time.Time.
func (b *Book) AddedTime() time.Time {
	return time.UnixMilli(b.AddedAt)
}

// WishlistSet builds a membership set from a slice of book IDs.
func WishlistSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
