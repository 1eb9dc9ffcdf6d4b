// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package models

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status           string  `json:"status"` // "healthy" or "degraded"
	Version          string  `json:"version"`
	CatalogReachable bool    `json:"catalog_reachable"`
	CarouselRunning  bool    `json:"carousel_running"`
	CarouselState    string  `json:"carousel_state,omitempty"`
	PoolSize         int     `json:"pool_size"`
	WebSocketClients int     `json:"websocket_clients"`
	Uptime           float64 `json:"uptime_seconds"`
}

// SpinResult reports the book a spin or landing is headed for.
// Fallback is empty for a proportional draw.
type SpinResult struct {
	Index    int     `json:"index"`
	Book     *Book   `json:"book,omitempty"`
	Weight   float64 `json:"weight,omitempty"`
	Fallback string  `json:"fallback,omitempty"`
}

// WishlistChange reports the outcome of a wishlist add or remove.
type WishlistChange struct {
	BookID     string `json:"book_id"`
	Wishlisted bool   `json:"wishlisted"`
	Changed    bool   `json:"changed"`
}

// ClickResult reports whether a click-through was counted.
// Repeat clicks inside the debounce window are not.
type ClickResult struct {
	BookID   string `json:"book_id"`
	Recorded bool   `json:"recorded"`
}

// CommandAccepted acknowledges a carousel command that returns no data.
type CommandAccepted struct {
	Command  string `json:"command"`
	Accepted bool   `json:"accepted"`
}
