// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package supervisor provides process supervision for Bookwheel using suture v4.

The tree manages every long-running service in the process with
Erlang/OTP-style supervision: automatic restart with backoff, failure
isolation between layers, and a bounded graceful shutdown.

# Overview

	RootSupervisor ("bookwheel")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	├── CarouselSupervisor ("carousel-layer")
	│   └── SessionService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The carousel session fails its Serve when the catalog cannot be read at
startup; the carousel layer retries it with backoff while the HTTP layer
keeps answering health checks (reporting "degraded").

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddCarouselService(services.NewSessionService(sess))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

# Configuration

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,              // Failures before backoff
	    FailureDecay:     30.0,             // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Zero fields take the suture defaults above.

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return an error: the service crashed and will be restarted
  - Return suture.ErrDoNotRestart: the service is finished for good
  - Context canceled: shutdown requested, return promptly

# Logging

Supervisor events (start, stop, failure, backoff) are routed through
sutureslog into an slog.Logger. In production that logger is the
zerolog-backed adapter from internal/logging, so supervisor events share
the process log format.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("Service did not stop")
	}
*/
package supervisor
