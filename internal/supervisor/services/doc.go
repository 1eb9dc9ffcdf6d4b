// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package services provides suture.Service wrappers for Bookwheel components.

Each wrapper translates a component's lifecycle into suture's
context-aware Serve pattern and names the service for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe to Serve
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Runs websocket.Hub until the context is canceled
  - Closes every client on shutdown
  - A stopped hub is not restarted

Carousel Session (SessionService):
  - Runs session.Session, the goroutine that owns the carousel
  - A failed catalog load at startup is retried with backoff
  - A closed session is not restarted

# Interfaces

Each wrapper depends on a small interface rather than the concrete type
so tests can substitute fakes:

	type HTTPServer interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

	type ContextHub interface {
	    RunWithContext(ctx context.Context) error
	    Done() <-chan struct{}
	}

	type CarouselLoop interface {
	    Serve(ctx context.Context) error
	    Done() <-chan struct{}
	}
*/
package services
