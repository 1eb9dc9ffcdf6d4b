// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires handlers and middleware into a Chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a new router.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())      // X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Limiters hold their own counters, so each is built once and shared.
	writeLimit := router.chiMiddleware.RateLimitWrite()

	// ========================
	// Health
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Catalog
	// ========================
	r.Route("/api/v1/books", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("books"))
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics)
		r.Use(RequestLogger)

		r.Get("/", router.handler.ListBooks)
		r.Get("/{id}", router.handler.GetBook)
		r.Post("/{id}/click", router.handler.RecordClick)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/", router.handler.CreateBook)
			r.Delete("/{id}", router.handler.DeleteBook)
			r.Post("/{id}/wishlist", router.handler.AddToWishlist)
			r.Delete("/{id}/wishlist", router.handler.RemoveFromWishlist)
		})
	})

	// ========================
	// Carousel
	// ========================
	r.Route("/api/v1/carousel", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("carousel"))
			r.Use(APISecurityHeaders())
			r.Use(PrometheusMetrics)
			r.Use(RequestLogger)

			r.Get("/", router.handler.CarouselSnapshot)
			r.Get("/layout", router.handler.CarouselLayout)
			r.Post("/spin", router.handler.Spin)
			r.Post("/continuous", router.handler.StartContinuous)
			r.Post("/land", router.handler.Land)
			r.Post("/nudge", router.handler.Nudge)
			r.Post("/move", router.handler.MoveToBook)
			r.With(writeLimit).Post("/reload", router.handler.ReloadPool)
		})

		// The upgrade needs the raw ResponseWriter, so no wrapping middleware.
		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.handler.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed", nil)
	})

	return r
}
