// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Carousel Metrics
	SpinsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_spins_started_total",
			Help: "Total number of spins started",
		},
		[]string{"kind"}, // "spin", "continuous", "land"
	)

	SpinsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_spins_completed_total",
			Help: "Total number of spins and landings that came to rest",
		},
	)

	Nudges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_nudges_total",
			Help: "Total number of one-slot nudges started",
		},
		[]string{"direction"},
	)

	SelectionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_selection_fallbacks_total",
			Help: "Total number of selections that skipped the weighted draw",
		},
		[]string{"reason"}, // "single", "uniform"
	)

	BooksSelected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_books_selected_total",
			Help: "Total number of books featured after motion settled",
		},
	)

	CommandsRefused = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_commands_refused_total",
			Help: "Total number of carousel commands ignored because the wheel was busy",
		},
		[]string{"command"},
	)

	ReloadsDeferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_reloads_deferred_total",
			Help: "Total number of pool reloads held until the wheel settled",
		},
	)

	PoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookwheel_pool_size",
			Help: "Number of books on the wheel",
		},
	)

	// Layout Metrics
	LayoutFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_layout_frames_total",
			Help: "Total number of layout frames computed",
		},
	)

	LayoutCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_layout_cache_hits_total",
			Help: "Total number of layout requests served from cache",
		},
	)

	LayoutCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_layout_cache_misses_total",
			Help: "Total number of layout requests that computed a frame",
		},
	)

	// Catalog Metrics
	CatalogOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookwheel_catalog_operation_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"operation"},
	)

	CatalogOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_catalog_operation_errors_total",
			Help: "Total number of failed catalog store operations",
		},
		[]string{"operation", "error_type"},
	)

	ClickThroughsDebounced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookwheel_click_throughs_debounced_total",
			Help: "Total number of repeated click-throughs dropped by the debounce window",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookwheel_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookwheel_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookwheel_websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages broadcast",
		},
		[]string{"type"},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookwheel_websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"}, // "slow_client", "write", "upgrade"
	)
)

// RecordSpinStarted records the start of a spin of the given kind.
func RecordSpinStarted(kind string) {
	SpinsStarted.WithLabelValues(kind).Inc()
}

// RecordSpinCompleted records a spin or landing coming to rest.
func RecordSpinCompleted() {
	SpinsCompleted.Inc()
}

// RecordNudge records a one-slot nudge.
func RecordNudge(direction string) {
	Nudges.WithLabelValues(direction).Inc()
}

// RecordSelectionFallback records a selection that skipped the weighted draw.
func RecordSelectionFallback(reason string) {
	SelectionFallbacks.WithLabelValues(reason).Inc()
}

// RecordBookSelected records a featured book.
func RecordBookSelected() {
	BooksSelected.Inc()
}

// RecordCommandRefused records a command the state machine ignored.
func RecordCommandRefused(command string) {
	CommandsRefused.WithLabelValues(command).Inc()
}

// RecordReloadDeferred records a pool reload held until the wheel settles.
func RecordReloadDeferred() {
	ReloadsDeferred.Inc()
}

// SetPoolSize updates the pool size gauge.
func SetPoolSize(n int) {
	PoolSize.Set(float64(n))
}

// RecordLayoutFrame records a computed layout frame.
func RecordLayoutFrame() {
	LayoutFrames.Inc()
}

// RecordLayoutCache records a layout cache lookup.
func RecordLayoutCache(hit bool) {
	if hit {
		LayoutCacheHits.Inc()
	} else {
		LayoutCacheMisses.Inc()
	}
}

// RecordCatalogOperation records a catalog store call and its outcome.
func RecordCatalogOperation(operation string, duration time.Duration, err error) {
	CatalogOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogOperationErrors.WithLabelValues(operation, classifyError(err)).Inc()
	}
}

// classifyError keeps the error_type label set bounded.
func classifyError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// RecordClickDebounced records a click-through dropped as a repeat.
func RecordClickDebounced() {
	ClickThroughsDebounced.Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordWSMessage records a broadcast message of the given type.
func RecordWSMessage(messageType string) {
	WSMessagesSent.WithLabelValues(messageType).Inc()
}

// RecordWSError records a websocket error.
func RecordWSError(errorType string) {
	WSErrors.WithLabelValues(errorType).Inc()
}
