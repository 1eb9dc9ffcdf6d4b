// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

// Package config loads Bookwheel configuration with koanf.
//
// Sources are layered with the precedence ENV > file > defaults:
//
//  1. Defaults from defaultConfig, which reuse the engine packages' own
//     DefaultConfig functions.
//  2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
//     /etc/bookwheel/config.yaml and /etc/bookwheel/config.yml.
//  3. Explicitly mapped environment variables. Unmapped variables are
//     ignored.
//
// Common environment variables:
//
//	SERVER_PORT             HTTP port (default 8080)
//	LOG_LEVEL / LOG_FORMAT  zerolog level and json|console
//	CATALOG_PATH            badger directory (default /data/catalog)
//	CATALOG_IN_MEMORY       keep the catalog in memory
//	CATALOG_SEED_FILE       JSON array of books loaded at startup
//	CAROUSEL_SPIN_DURATION  timed spin length, e.g. "4s"
//	CAROUSEL_SEED           selection RNG seed (0 = default)
//	CORS_ORIGINS            comma-separated allowed origins
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	catalog:
//	  path: /var/lib/bookwheel
//	  seed_file: /etc/bookwheel/books.json
//	carousel:
//	  spin_duration: 3s
//	  nudge_duration: 250ms
//	  wishlist_weight: 1.5
//
// Load validates the merged result; engine sections are checked by the
// Validate methods of carousel.Config, selection.WeightConfig and
// layout.Config.
package config
