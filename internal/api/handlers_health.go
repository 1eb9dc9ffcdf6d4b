// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/bookwheel/internal/models"
)

// healthCheckTimeout bounds each dependency health check.
const healthCheckTimeout = 2 * time.Second

// Health handles health check requests.
//
// The service is "healthy" when the catalog answers and the carousel
// session is running, "degraded" otherwise. The status code is 200 either
// way so monitors can read the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	_, catalogErr := h.store.WishlistIDs(ctx)
	snap, sessionErr := h.session.Snapshot(ctx)

	health := models.HealthStatus{
		Status:           "healthy",
		Version:          Version,
		CatalogReachable: catalogErr == nil,
		CarouselRunning:  sessionErr == nil,
		Uptime:           time.Since(h.startTime).Seconds(),
	}
	if sessionErr == nil {
		health.CarouselState = snap.State.String()
		health.PoolSize = snap.ItemCount
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}
	if catalogErr != nil || sessionErr != nil {
		health.Status = "degraded"
	}

	respondSuccess(w, http.StatusOK, health, start)
}
