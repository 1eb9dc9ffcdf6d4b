// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package api provides the HTTP REST API layer for Bookwheel.

It exposes the catalog and the live carousel session over JSON, plus a
WebSocket stream of carousel events and the Prometheus scrape endpoint.

Key Components:

  - Router: Chi route configuration and middleware stack
  - Handler: request handlers for catalog, wishlist and carousel endpoints
  - ChiMiddleware: CORS (go-chi/cors) and rate limiting (go-chi/httprate)
  - Response formatting: the models.APIResponse envelope on every endpoint

Endpoints:

	GET    /api/v1/health
	GET    /api/v1/books
	POST   /api/v1/books
	GET    /api/v1/books/{id}
	DELETE /api/v1/books/{id}
	POST   /api/v1/books/{id}/wishlist
	DELETE /api/v1/books/{id}/wishlist
	POST   /api/v1/books/{id}/click
	GET    /api/v1/carousel
	GET    /api/v1/carousel/layout?width=&height=
	POST   /api/v1/carousel/spin
	POST   /api/v1/carousel/continuous
	POST   /api/v1/carousel/land       {"index": n}              (body optional)
	POST   /api/v1/carousel/nudge      {"direction": "left", "steps": k}
	POST   /api/v1/carousel/move       {"book_id": "..."}
	POST   /api/v1/carousel/reload
	GET    /api/v1/carousel/ws
	GET    /metrics

Error Handling:

A carousel command the wheel refuses in its current state answers
409 CAROUSEL_BUSY. The engine itself ignores such requests silently; the
status code is how HTTP clients learn the request had no effect.

Usage Example:

	handler := api.NewHandler(store, sess, hub, api.DefaultHandlerConfig())
	mw := api.NewChiMiddlewareFromSecurity(cfg.Security.CORSOrigins,
	    cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)
	router := api.NewRouter(handler, mw)
	http.ListenAndServe(":8080", router.SetupChi())

Thread Safety:

Handlers are safe for concurrent use. All carousel access goes through the
session, which serializes commands onto its own goroutine.
*/
package api
