// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package session runs one live carousel.

The carousel engine is single-threaded. A Session gives it a goroutine of
its own: API handlers post closures with Do (or the typed wrappers such as
Spin and Nudge) and wait for them to run; animation frames run on a ticker
at the configured frame interval, and only while something is moving.

# Side Effects

When motion settles on a book the session:
  - records an impression in the catalog and refreshes that book in the pool
  - broadcasts a "selected" message
  - counts the selection in the carousel metrics

Every animated tick broadcasts a "frame" message with the wheel angle and a
unit-viewport layout. State transitions and pool reloads are broadcast too.

# Lifecycle

Session implements suture.Service. Serve loads the pool from the catalog,
then runs until its context is canceled. Cancellation closes the session;
later commands return ErrClosed.

# Refusals

Commands the carousel refuses in its current state return ErrBusy and are
counted in bookwheel_commands_refused_total.
*/
package session
