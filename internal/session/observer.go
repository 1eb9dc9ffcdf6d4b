// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package session

import (
	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/metrics"
	"github.com/tomtom215/bookwheel/internal/models"
	"github.com/tomtom215/bookwheel/internal/websocket"
)

// StateEvent is the payload of a state message.
type StateEvent struct {
	From carousel.State `json:"from"`
	To   carousel.State `json:"to"`
}

// FrameEvent is the payload of a frame message. Layout is computed for a
// unit viewport; clients scale it to their own size.
type FrameEvent struct {
	State   carousel.State `json:"state"`
	Angle   float64        `json:"angle"`
	Nearest int            `json:"nearest"`
	Layout  layout.Frame   `json:"layout"`
}

// SelectedEvent is the payload of a selected message.
type SelectedEvent struct {
	Index int         `json:"index"`
	Book  models.Book `json:"book"`
}

// PoolEvent is the payload of a pool message.
type PoolEvent struct {
	Books    int  `json:"books"`
	Wishlist int  `json:"wishlist"`
	Reset    bool `json:"reset"`
}

// observer forwards machine events to the event log, metrics and the
// broadcaster. It runs on the loop goroutine.
type observer struct {
	s *Session
}

func (o observer) StateChanged(from, to carousel.State) {
	o.s.events.StateChanged(from.String(), to.String())
	o.s.hub.Broadcast(websocket.MessageTypeState, StateEvent{From: from, To: to})
}

func (o observer) AngleChanged(angle float64) {
	c := o.s.car
	if c == nil {
		return
	}
	m := c.Machine()
	o.s.hub.Broadcast(websocket.MessageTypeFrame, FrameEvent{
		State:   m.State(),
		Angle:   carousel.NormalizeAngle(angle),
		Nearest: carousel.IndexAtAngle(angle, m.ItemCount(), m.Config().SelectionAngle),
		Layout:  c.Layout(1, 1),
	})
	metrics.RecordLayoutFrame()
}

func (o observer) SpinStarted(kind carousel.SpinKind, target int) {
	o.s.events.SpinStarted(string(kind), target)
	metrics.RecordSpinStarted(string(kind))
}

func (o observer) SpinCompleted(index int) {
	o.s.events.SpinCompleted(index)
	metrics.RecordSpinCompleted()
}

func (o observer) NudgeStarted(dir carousel.Direction) {
	o.s.events.NudgeStarted(dir.String())
	metrics.RecordNudge(dir.String())
}

func (o observer) NudgeCompleted(index int) {
	o.s.events.NudgeCompleted(index)
}
