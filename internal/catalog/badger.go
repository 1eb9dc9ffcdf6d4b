// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/models"
	"github.com/tomtom215/bookwheel/internal/validation"
)

// Key prefixes for BadgerDB storage
const (
	bookKeyPrefix     = "book:"
	wishlistKeyPrefix = "wishlist:"
)

// maxConflictRetries bounds retries of read-modify-write transactions.
const maxConflictRetries = 5

// Config configures the badger catalog.
type Config struct {
	// Path is the badger data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the catalog in memory only.
	InMemory bool
}

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	owned  bool
	logger zerolog.Logger
}

// Open opens (or creates) a badger database and wraps it in a store.
func Open(cfg Config) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("catalog path is required unless in_memory is set")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	s := NewBadgerStore(db)
	s.owned = true
	return s, nil
}

// NewBadgerStore wraps an existing database. Close does not close a
// database passed in this way.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logging.With().Str("component", "catalog").Logger(),
	}
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}

func bookKey(id string) []byte     { return []byte(bookKeyPrefix + id) }
func wishlistKey(id string) []byte { return []byte(wishlistKeyPrefix + id) }

// ListBooks returns every book, ordered by ID.
func (s *BadgerStore) ListBooks(ctx context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(bookKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var book models.Book
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				s.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping unreadable book")
				continue
			}
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook returns one book.
func (s *BadgerStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	var book *models.Book
	err := s.db.View(func(txn *badger.Txn) error {
		b, err := getBook(txn, id)
		book = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func getBook(txn *badger.Txn, id string) (*models.Book, error) {
	item, err := txn.Get(bookKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	var book models.Book
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &book)
	}); err != nil {
		return nil, fmt.Errorf("decode book %s: %w", id, err)
	}
	return &book, nil
}

func putBook(txn *badger.Txn, book *models.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	if err := txn.Set(bookKey(book.ID), data); err != nil {
		return fmt.Errorf("set book: %w", err)
	}
	return nil
}

// PutBook validates and stores a book.
func (s *BadgerStore) PutBook(ctx context.Context, book *models.Book) error {
	if err := validation.ValidateStruct(book); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBook, err)
	}
	if book.AddedAt == 0 {
		book.AddedAt = time.Now().UnixMilli()
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return putBook(txn, book)
	}); err != nil {
		return err
	}
	s.logger.Debug().Str("book_id", book.ID).Msg("Book stored")
	return nil
}

// DeleteBook removes a book and its wishlist entry.
func (s *BadgerStore) DeleteBook(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(bookKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		} else if err != nil {
			return fmt.Errorf("get book: %w", err)
		}
		if err := txn.Delete(bookKey(id)); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		if err := txn.Delete(wishlistKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete wishlist entry: %w", err)
		}
		return nil
	})
}

// WishlistIDs returns the wishlist, ordered by ID.
func (s *BadgerStore) WishlistIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(wishlistKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), wishlistKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return ids, nil
}

// AddToWishlist adds a book to the wishlist.
func (s *BadgerStore) AddToWishlist(ctx context.Context, id string) (bool, error) {
	added := false
	err := s.update(ctx, func(txn *badger.Txn) error {
		added = false
		book, err := getBook(txn, id)
		if err != nil {
			return err
		}
		if _, err := txn.Get(wishlistKey(id)); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get wishlist entry: %w", err)
		}

		stamp := make([]byte, 8)
		binary.BigEndian.PutUint64(stamp, uint64(time.Now().UnixMilli())) //nolint:gosec // epoch millis are positive
		if err := txn.Set(wishlistKey(id), stamp); err != nil {
			return fmt.Errorf("set wishlist entry: %w", err)
		}
		book.WishlistCount++
		added = true
		return putBook(txn, book)
	})
	return added, err
}

// RemoveFromWishlist removes a book from the wishlist. The book's
// WishlistCount is historical and is not decremented.
func (s *BadgerStore) RemoveFromWishlist(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.update(ctx, func(txn *badger.Txn) error {
		removed = false
		if _, err := txn.Get(wishlistKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			if _, err := txn.Get(bookKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBookNotFound
			}
			return nil
		} else if err != nil {
			return fmt.Errorf("get wishlist entry: %w", err)
		}
		if err := txn.Delete(wishlistKey(id)); err != nil {
			return fmt.Errorf("delete wishlist entry: %w", err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// RecordImpression increments a book's ImpressionCount.
func (s *BadgerStore) RecordImpression(ctx context.Context, id string) error {
	return s.increment(ctx, id, func(b *models.Book) { b.ImpressionCount++ })
}

// RecordClickThrough increments a book's ClickThroughCount.
func (s *BadgerStore) RecordClickThrough(ctx context.Context, id string) error {
	return s.increment(ctx, id, func(b *models.Book) { b.ClickThroughCount++ })
}

func (s *BadgerStore) increment(ctx context.Context, id string, apply func(*models.Book)) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		book, err := getBook(txn, id)
		if err != nil {
			return err
		}
		apply(book)
		return putBook(txn, book)
	})
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug().Int("attempt", attempt+1).Msg("Catalog transaction conflict, retrying")
	}
	return fmt.Errorf("catalog update: %w", err)
}
