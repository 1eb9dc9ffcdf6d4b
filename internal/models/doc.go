// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package models defines the data structures shared across Bookwheel.

Key Components:

  - Book: a catalog entry with the engagement counters the carousel weighs
  - APIResponse: the standard response envelope for every HTTP endpoint
  - HealthStatus, SpinResult, WishlistChange, ClickResult: endpoint payloads

Books carry validate tags consumed by internal/validation; the catalog
store and the API both validate through them.
*/
package models
