// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

// Package logging provides centralized zerolog-based structured logging for Bookwheel.
//
// JSON output is the default; "console" gives human-readable output for
// development. A global logger is configured once at startup and component
// loggers are derived from it:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logger := logging.With().Str("component", "catalog").Logger()
//	logger.Info().Int("books", n).Msg("Catalog opened")
//
// Request handlers log through the context so request_id and session_id
// travel with every line:
//
//	logging.Ctx(ctx).Info().Msg("Spin requested")
//
// EventLogger gives the carousel session a fixed vocabulary for lifecycle
// events, and SlogHandler bridges the global logger to libraries that
// expect log/slog (the suture supervisor via sutureslog).
//
// Always terminate log chains with .Msg() or .Send(); an unterminated chain
// is never written.
package logging
