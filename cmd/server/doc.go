// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package main is the entry point for the Bookwheel server.

Bookwheel serves a book catalog as a spinning recommendation carousel. A
weighted draw picks the featured book, the wheel animates to it on the
server, and every animation frame is streamed to browsers over WebSocket.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("bookwheel")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub
	├── CarouselSupervisor ("carousel-layer")
	│   └── Carousel session loop
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: BadgerDB store, optionally seeded from a JSON file
 4. WebSocket Hub and carousel session
 5. HTTP Server: Chi router with middleware stack
 6. Supervisor Tree: start, then block until SIGINT or SIGTERM

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	SERVER_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	CATALOG_PATH=/data/catalog
	CATALOG_IN_MEMORY=false
	CATALOG_SEED_FILE=books.json
	CORS_ORIGINS=*
	CAROUSEL_SPIN_DURATION=4s

The config file is read from CONFIG_PATH, ./config.yaml or
/etc/bookwheel/config.yaml. When one is found it is watched and the log
level follows edits without a restart.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the session loop stops and the catalog is closed.

# Example Usage

	export CATALOG_IN_MEMORY=true
	export CATALOG_SEED_FILE=testdata/books.json
	export LOG_FORMAT=console
	./bookwheel
*/
package main
