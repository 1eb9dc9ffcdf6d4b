// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/models"
)

// LoadSeed reads a JSON array of books from path and inserts the ones the
// catalog does not already hold. Existing books keep their stored record
// and counters. It returns the number of books inserted.
//
// Invalid entries are logged and skipped; a file that cannot be read or
// parsed is an error.
func LoadSeed(ctx context.Context, store Store, path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return 0, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	logger := logging.With().Str("component", "catalog").Str("seed", path).Logger()

	inserted := 0
	for i := range books {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		book := &books[i]

		_, err := store.GetBook(ctx, book.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrBookNotFound) {
			return inserted, fmt.Errorf("check seed book %q: %w", book.ID, err)
		}

		if err := store.PutBook(ctx, book); err != nil {
			if errors.Is(err, ErrInvalidBook) {
				logger.Warn().Err(err).Int("entry", i).Str("book_id", book.ID).Msg("Skipping invalid seed book")
				continue
			}
			return inserted, fmt.Errorf("insert seed book %q: %w", book.ID, err)
		}
		inserted++
	}

	logger.Info().Int("entries", len(books)).Int("inserted", inserted).Msg("Catalog seed loaded")
	return inserted, nil
}
