// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package services

import (
	"context"

	"github.com/thejerf/suture/v4"
)

// ContextHub matches *websocket.Hub's run loop.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
	Done() <-chan struct{}
}

// WebSocketHubService runs the carousel event hub under supervision.
//
// A hub closes its client set and its Done channel when its loop exits,
// so it cannot be restarted: once Done is closed the service reports
// suture.ErrDoNotRestart.
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService creates a new WebSocket hub service wrapper.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	select {
	case <-w.hub.Done():
		return suture.ErrDoNotRestart
	default:
	}

	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's logs.
func (w *WebSocketHubService) String() string {
	return w.name
}
