// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package selection scores catalog books and draws one at random in proportion
to its score.

# Weight

Every book that is not on the reader's wishlist gets a weight of at least 1:

	engagement = min(MaxEngagementBonus,
	                 WishlistWeight*ln(1+wishlistCount) + ClickWeight*ln(1+clickThroughCount))
	impression = max(MinImpressionFactor, 1 - ImpressionPenalty*impressions/maxImpressions)
	weight     = max(1, (1+engagement)*impression + recencyBonus + ratingBonus)

Wishlisted books weigh exactly 0 and are never offered while anything else
is eligible. The recency bonus applies to books added within RecencyWindow;
the rating bonus to books rated at or above RatingThreshold.

# Sampling

SelectWeightedRandom performs a single linear cumulative walk. Sampler
caches the weights in a cache.WeightTree for O(log n) repeated draws over
an unchanged pool; the carousel draws spin targets through one and rebuilds
it whenever the pool or wishlist changes.

	Empty pool        -> nil
	Single book       -> that book, wishlisted or not
	All wishlisted    -> uniform pick over the whole pool
	Otherwise         -> proportional to weight

# Randomness

The random source is injected through RNG. NewRNG builds a seeded PCG
generator so tests and replays are deterministic.
*/
package selection
