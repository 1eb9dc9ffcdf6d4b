// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

/*
Package websocket streams live carousel state to browsers.

It uses gorilla/websocket with a hub-and-spoke layout: one Hub goroutine
owns the client set and fans out broadcasts; each Client runs a readPump
and a writePump.

Message types (server to client):

  - snapshot: full carousel snapshot, queued on connect before registration
  - state: state machine transition
  - frame: layout frame for an animated tick
  - selected: featured book after motion settles
  - pool: the pool or wishlist changed
  - pong: reply to a client "ping"

Broadcast never blocks the caller. When the hub queue is full the message
is dropped, and a client whose own buffer is full is disconnected; the
carousel session therefore never waits on a slow browser.

The hub runs under the supervisor via RunWithContext and closes every
client on shutdown.
*/
package websocket
