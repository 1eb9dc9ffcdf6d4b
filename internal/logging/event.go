// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package logging

import (
	"github.com/rs/zerolog"
)

// EventLogger logs carousel lifecycle events with consistent field names.
// The session attaches one per carousel.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates an EventLogger on the global logger.
func NewEventLogger(sessionID string) *EventLogger {
	return &EventLogger{
		logger: With().Str("component", "carousel").Str("session_id", sessionID).Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger, sessionID string) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "carousel").Str("session_id", sessionID).Logger(),
	}
}

// StateChanged logs a state machine transition.
func (e *EventLogger) StateChanged(from, to string) {
	e.logger.Debug().Str("from", from).Str("to", to).Msg("carousel state changed")
}

// SpinStarted logs the start of a spin, continuous spin or landing.
// target is -1 when the motion has no target yet.
func (e *EventLogger) SpinStarted(kind string, target int) {
	e.logger.Debug().Str("kind", kind).Int("target", target).Msg("spin started")
}

// SpinCompleted logs a completed spin or landing.
func (e *EventLogger) SpinCompleted(index int) {
	e.logger.Debug().Int("index", index).Msg("spin completed")
}

// NudgeStarted logs a one-slot nudge.
func (e *EventLogger) NudgeStarted(direction string) {
	e.logger.Debug().Str("direction", direction).Msg("nudge started")
}

// NudgeCompleted logs a completed nudge.
func (e *EventLogger) NudgeCompleted(index int) {
	e.logger.Debug().Int("index", index).Msg("nudge completed")
}

// BookSelected logs the book featured after motion settles.
func (e *EventLogger) BookSelected(bookID string, index int) {
	e.logger.Info().Str("book_id", bookID).Int("index", index).Msg("book selected")
}

// SelectionFallback logs a weighted draw that fell back to a simpler pick.
func (e *EventLogger) SelectionFallback(reason string, poolSize int) {
	e.logger.Debug().Str("reason", reason).Int("pool_size", poolSize).Msg("selection fell back")
}

// CommandRefused logs a request the state machine ignored.
func (e *EventLogger) CommandRefused(command, state string) {
	e.logger.Debug().Str("command", command).Str("state", state).Msg("carousel command refused")
}

// ReloadDeferred logs a pool change held until the wheel settles.
func (e *EventLogger) ReloadDeferred(state string) {
	e.logger.Debug().Str("state", state).Msg("carousel pool reload deferred")
}

// ImpressionFailed logs a failure to record an impression in the catalog.
func (e *EventLogger) ImpressionFailed(bookID string, err error) {
	e.logger.Warn().Err(err).Str("book_id", bookID).Msg("failed to record impression")
}

// PoolReloaded logs a pool refresh from the catalog.
func (e *EventLogger) PoolReloaded(books, wishlist int) {
	e.logger.Info().Int("books", books).Int("wishlist", wishlist).Msg("carousel pool reloaded")
}
