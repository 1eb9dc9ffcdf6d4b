// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import (
	"fmt"
	"strings"
)

// State is the spin state of the wheel.
type State int

const (
	// StateIdle is the initial state: no selection yet.
	StateIdle State = iota

	// StateSpinning covers timed spins and the landing after a continuous spin.
	StateSpinning

	// StateStopped is the only state that accepts reader actions.
	StateStopped

	// StateContinuous is unbounded constant-velocity rotation with no target.
	StateContinuous

	// StateNudging is a single one-slot move.
	StateNudging
)

var stateNames = [...]string{"idle", "spinning", "stopped", "continuous", "nudging"}

// String returns the lowercase state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Busy reports whether the wheel is in motion.
func (s State) Busy() bool {
	return s == StateSpinning || s == StateContinuous || s == StateNudging
}

// Direction is the direction of a single nudge.
type Direction int

const (
	// Right rotates the wheel by +1 slot; the selected index moves down by one.
	Right Direction = iota + 1

	// Left rotates the wheel by -1 slot; the selected index moves up by one.
	Left
)

// String returns "left" or "right".
func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ParseDirection parses "left" or "right", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("invalid direction %q: must be left or right", s)
	}
}

// sign returns the angular sign of one step in d.
func (d Direction) sign() float64 {
	if d == Left {
		return -1
	}
	return 1
}

// indexStep returns how the selected index moves for one step in d.
func (d Direction) indexStep() int {
	if d == Left {
		return 1
	}
	return -1
}

// SpinKind distinguishes how a spin was started.
type SpinKind string

const (
	// SpinTimed is a weighted or targeted spin with a fixed duration.
	SpinTimed SpinKind = "spin"

	// SpinContinuous is an unbounded spin with no target.
	SpinContinuous SpinKind = "continuous"

	// SpinLand is the deceleration out of a continuous spin.
	SpinLand SpinKind = "land"
)
