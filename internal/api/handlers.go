// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/bookwheel/internal/cache"
	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/carousel/selection"
	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/logging"
	ws "github.com/tomtom215/bookwheel/internal/websocket"
)

// Version is reported by the health endpoint.
var Version = "dev"

// layoutCacheTTL bounds how long a computed layout frame is reused. Frames
// are pure functions of their key, so this only limits memory churn.
const layoutCacheTTL = 10 * time.Minute

// CarouselSession is the live carousel as the handlers use it.
// Satisfied by *session.Session.
type CarouselSession interface {
	Snapshot(ctx context.Context) (carousel.Snapshot, error)
	LayoutConfig() layout.Config
	Spin(ctx context.Context) (selection.Result, error)
	StartContinuous(ctx context.Context) error
	Land(ctx context.Context, index *int) (selection.Result, error)
	Nudge(ctx context.Context, dir carousel.Direction, steps int) error
	MoveToBook(ctx context.Context, id string) error
	Reload(ctx context.Context) error
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// CORSOrigins are the origins allowed to open the WebSocket stream.
	// "*" allows any origin.
	CORSOrigins []string

	// ClickDebounce drops repeat click-throughs from one client on one
	// book inside this window. Zero disables debouncing.
	ClickDebounce time.Duration

	// LayoutCacheSize is the number of layout frames kept.
	LayoutCacheSize int
}

// DefaultHandlerConfig returns the handler defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		CORSOrigins:     []string{"*"},
		ClickDebounce:   2 * time.Second,
		LayoutCacheSize: 256,
	}
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_helpers.go: response and parsing helpers
//   - handlers_health.go: health endpoint
//   - handlers_books.go: catalog, wishlist and click-through endpoints
//   - handlers_carousel.go: carousel state and command endpoints
type Handler struct {
	store       catalog.Store
	session     CarouselSession
	wsHub       *ws.Hub
	config      HandlerConfig
	layoutCache *cache.LRU[layout.Frame]
	clicks      *cache.LRU[struct{}]
	startTime   time.Time
}

// NewHandler creates a new API handler.
//
//nolint:gocritic // hugeParam: config is read once at construction
func NewHandler(store catalog.Store, sess CarouselSession, hub *ws.Hub, config HandlerConfig) *Handler {
	h := &Handler{
		store:       store,
		session:     sess,
		wsHub:       hub,
		config:      config,
		layoutCache: cache.NewLRU[layout.Frame](config.LayoutCacheSize, layoutCacheTTL),
		startTime:   time.Now(),
	}
	if config.ClickDebounce > 0 {
		h.clicks = cache.NewLRU[struct{}](4096, config.ClickDebounce)
	}
	return h
}

// getUpgrader creates a WebSocket upgrader with origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	for _, allowedOrigin := range h.config.CORSOrigins {
		if allowedOrigin == "*" {
			return true
		}
		if origin != "" && allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// WebSocket upgrades the connection and streams carousel events. The
// client receives a snapshot before any broadcast.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	snap, err := h.session.Snapshot(r.Context())
	if err != nil {
		respondSessionError(w, err)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Enqueue(ws.Message{Type: ws.MessageTypeSnapshot, Data: snap})

	select {
	case h.wsHub.Register <- client:
	case <-h.wsHub.Done():
		_ = conn.Close() //nolint:errcheck // hub already stopped
		return
	}
	client.Start()
}
