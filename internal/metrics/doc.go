// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package metrics provides Prometheus metrics for Bookwheel.

Collectors are registered on the default registry with promauto and are
exposed at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Carousel:
  - bookwheel_spins_started_total{kind}: spins, continuous spins and landings
  - bookwheel_spins_completed_total: motions that came to rest
  - bookwheel_nudges_total{direction}: one-slot nudges
  - bookwheel_selection_fallbacks_total{reason}: single-book and uniform picks
  - bookwheel_books_selected_total: featured books
  - bookwheel_commands_refused_total{command}: requests ignored while busy
  - bookwheel_pool_size: books on the wheel

Layout:
  - bookwheel_layout_frames_total
  - bookwheel_layout_cache_hits_total, bookwheel_layout_cache_misses_total

Catalog:
  - bookwheel_catalog_operation_duration_seconds{operation}
  - bookwheel_catalog_operation_errors_total{operation,error_type}
  - bookwheel_click_throughs_debounced_total

API and WebSocket:
  - bookwheel_api_requests_total{method,endpoint,status_code}
  - bookwheel_api_request_duration_seconds{method,endpoint}
  - bookwheel_api_active_requests
  - bookwheel_api_rate_limit_hits_total{endpoint}
  - bookwheel_websocket_connections
  - bookwheel_websocket_messages_sent_total{type}
  - bookwheel_websocket_errors_total{error_type}

Record helpers keep label values consistent:

	metrics.RecordSpinStarted("spin")
	metrics.RecordAPIRequest(r.Method, route, "200", time.Since(start))
*/
package metrics
