// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package selection

import (
	"errors"
	"math"
	"time"

	"github.com/tomtom215/bookwheel/internal/models"
)

// WeightConfig holds the scoring policy. All values are tunable defaults,
// not physical constants.
type WeightConfig struct {
	// ImpressionPenalty scales how much a book's share of the pool's
	// maximum impression count reduces its weight.
	// Default: 0.6.
	ImpressionPenalty float64 `json:"impression_penalty"`

	// MinImpressionFactor is the floor of the impression multiplier.
	// Default: 0.25.
	MinImpressionFactor float64 `json:"min_impression_factor"`

	// WishlistWeight multiplies ln(1+wishlistCount).
	// Default: 1.0.
	WishlistWeight float64 `json:"wishlist_weight"`

	// ClickWeight multiplies ln(1+clickThroughCount).
	// Default: 0.5.
	ClickWeight float64 `json:"click_weight"`

	// MaxEngagementBonus caps the engagement term.
	// Default: 6.
	MaxEngagementBonus float64 `json:"max_engagement_bonus"`

	// RecencyWindow is how long a newly added book counts as recent.
	// Default: 30 days.
	RecencyWindow time.Duration `json:"recency_window"`

	// RecencyBonus is added to recent books.
	// Default: 2.0.
	RecencyBonus float64 `json:"recency_bonus"`

	// RatingThreshold is the minimum rating that earns RatingBonus.
	// Default: 4.5.
	RatingThreshold float64 `json:"rating_threshold"`

	// RatingBonus is added to highly rated books.
	// Default: 1.5.
	RatingBonus float64 `json:"rating_bonus"`
}

// DefaultWeightConfig returns the default scoring policy.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		ImpressionPenalty:   0.6,
		MinImpressionFactor: 0.25,
		WishlistWeight:      1.0,
		ClickWeight:         0.5,
		MaxEngagementBonus:  6,
		RecencyWindow:       30 * 24 * time.Hour,
		RecencyBonus:        2.0,
		RatingThreshold:     4.5,
		RatingBonus:         1.5,
	}
}

// Validate checks the policy for values that would break the weight floor
// or monotonicity.
//
//nolint:gocritic // hugeParam: value receiver matches the other config types
func (c WeightConfig) Validate() error {
	if c.ImpressionPenalty < 0 || c.ImpressionPenalty > 1 {
		return errors.New("impression_penalty must be between 0 and 1")
	}
	if c.MinImpressionFactor <= 0 || c.MinImpressionFactor > 1 {
		return errors.New("min_impression_factor must be in (0, 1]")
	}
	if c.WishlistWeight < 0 || c.ClickWeight < 0 {
		return errors.New("engagement weights must be non-negative")
	}
	if c.MaxEngagementBonus < 0 {
		return errors.New("max_engagement_bonus must be non-negative")
	}
	if c.RecencyWindow < 0 {
		return errors.New("recency_window must be non-negative")
	}
	if c.RecencyBonus < 0 || c.RatingBonus < 0 {
		return errors.New("bonuses must be non-negative")
	}
	return nil
}

// Weigher computes per-book weights with a fixed policy and clock.
type Weigher struct {
	Config WeightConfig

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// NewWeigher creates a Weigher using the wall clock.
//
//nolint:gocritic // hugeParam: config is copied once at construction
func NewWeigher(cfg WeightConfig) *Weigher {
	return &Weigher{Config: cfg, Now: time.Now}
}

func (w *Weigher) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Weight returns the selection weight of book. Wishlisted books weigh 0;
// every other book weighs at least 1.
//
//nolint:gocritic // hugeParam: Book is read-only here
func (w *Weigher) Weight(book models.Book, wishlist map[string]struct{}, maxImpressions int) float64 {
	if _, excluded := wishlist[book.ID]; excluded {
		return 0
	}
	return w.score(&book, maxImpressions, w.now().UnixMilli())
}

// Weights scores a whole pool against one clock reading and one
// maximum-impression value.
func (w *Weigher) Weights(books []models.Book, wishlist map[string]struct{}) []float64 {
	weights := make([]float64, len(books))
	maxImpressions := MaxImpressions(books)
	nowMS := w.now().UnixMilli()
	for i := range books {
		if _, excluded := wishlist[books[i].ID]; excluded {
			continue
		}
		weights[i] = w.score(&books[i], maxImpressions, nowMS)
	}
	return weights
}

func (w *Weigher) score(book *models.Book, maxImpressions int, nowMS int64) float64 {
	cfg := &w.Config

	impression := 1.0
	if maxImpressions > 0 {
		impression = 1 - cfg.ImpressionPenalty*float64(max(book.ImpressionCount, 0))/float64(maxImpressions)
		impression = math.Max(cfg.MinImpressionFactor, impression)
	}

	engagement := cfg.WishlistWeight*math.Log1p(float64(max(book.WishlistCount, 0))) +
		cfg.ClickWeight*math.Log1p(float64(max(book.ClickThroughCount, 0)))
	engagement = math.Min(cfg.MaxEngagementBonus, engagement)

	weight := (1 + engagement) * impression

	// Future timestamps count as recent.
	if nowMS-book.AddedAt < cfg.RecencyWindow.Milliseconds() {
		weight += cfg.RecencyBonus
	}
	if book.Rating >= cfg.RatingThreshold {
		weight += cfg.RatingBonus
	}

	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 1 {
		return 1
	}
	return weight
}

// MaxImpressions returns the largest impression count in the pool.
func MaxImpressions(books []models.Book) int {
	maxImp := 0
	for i := range books {
		if books[i].ImpressionCount > maxImp {
			maxImp = books[i].ImpressionCount
		}
	}
	return maxImp
}

var defaultWeigher = &Weigher{Config: DefaultWeightConfig()}

// CalculateWeight scores one book with the default policy and the wall clock.
//
//nolint:gocritic // hugeParam: Book is read-only here
func CalculateWeight(book models.Book, wishlist map[string]struct{}, maxImpressions int) float64 {
	return defaultWeigher.Weight(book, wishlist, maxImpressions)
}
