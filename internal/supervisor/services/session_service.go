// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bookwheel/internal/session"
)

// CarouselLoop matches *session.Session's run loop.
type CarouselLoop interface {
	Serve(ctx context.Context) error
	Done() <-chan struct{}
}

// SessionService runs the carousel session under supervision.
//
// A failed pool load returns an error before the loop starts, so suture
// retries it with backoff. Once the session has closed it stays closed and
// the service reports suture.ErrDoNotRestart.
type SessionService struct {
	loop CarouselLoop
	name string
}

// NewSessionService creates a new carousel session service wrapper.
func NewSessionService(loop CarouselLoop) *SessionService {
	return &SessionService{
		loop: loop,
		name: "carousel-session",
	}
}

// Serve implements suture.Service.
func (s *SessionService) Serve(ctx context.Context) error {
	select {
	case <-s.loop.Done():
		return suture.ErrDoNotRestart
	default:
	}

	err := s.loop.Serve(ctx)
	if errors.Is(err, session.ErrClosed) {
		return suture.ErrDoNotRestart
	}
	return err
}

// String implements fmt.Stringer for suture's logs.
func (s *SessionService) String() string {
	return s.name
}
