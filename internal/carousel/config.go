// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config contains the motion parameters of the wheel.
type Config struct {
	// SelectionAngle is where the featured card sits, in degrees.
	// Default: 40.
	SelectionAngle float64 `json:"selection_angle"`

	// SpinDuration is the length of a timed spin.
	// Default: 4s.
	SpinDuration time.Duration `json:"spin_duration"`

	// ExtraRevolutions is the number of whole turns added to a timed spin
	// in the direction of the shortest rotation.
	// Default: 3.
	ExtraRevolutions int `json:"extra_revolutions"`

	// ContinuousVelocity is the continuous spin speed in degrees per second.
	// Default: 360.
	ContinuousVelocity float64 `json:"continuous_velocity"`

	// LandDuration is the deceleration time after StopAndLand.
	// Default: 1.2s.
	LandDuration time.Duration `json:"land_duration"`

	// MinLandDistance is the shortest forward rotation allowed when
	// landing; closer targets get one extra turn.
	// Default: 90.
	MinLandDistance float64 `json:"min_land_distance"`

	// NudgeDuration is the length of a single one-slot nudge.
	// Default: 300ms.
	NudgeDuration time.Duration `json:"nudge_duration"`

	// ChainStepDelay is the pause between steps of a nudge chain.
	// Default: 0.
	ChainStepDelay time.Duration `json:"chain_step_delay"`
}

// DefaultConfig returns the default motion parameters.
func DefaultConfig() Config {
	return Config{
		SelectionAngle:     40,
		SpinDuration:       4 * time.Second,
		ExtraRevolutions:   3,
		ContinuousVelocity: 360,
		LandDuration:       1200 * time.Millisecond,
		MinLandDistance:    90,
		NudgeDuration:      300 * time.Millisecond,
		ChainStepDelay:     0,
	}
}

// Validate checks the configuration for values the machine cannot animate.
//
//nolint:gocritic // hugeParam: value receiver is intentional for immutable semantics
func (c Config) Validate() error {
	if math.IsNaN(c.SelectionAngle) || math.IsInf(c.SelectionAngle, 0) {
		return errors.New("selection_angle must be finite")
	}
	if c.SpinDuration <= 0 {
		return fmt.Errorf("spin_duration must be positive, got %s", c.SpinDuration)
	}
	if c.ExtraRevolutions < 0 {
		return fmt.Errorf("extra_revolutions must be non-negative, got %d", c.ExtraRevolutions)
	}
	if c.ContinuousVelocity <= 0 || math.IsInf(c.ContinuousVelocity, 0) {
		return fmt.Errorf("continuous_velocity must be positive and finite, got %v", c.ContinuousVelocity)
	}
	if c.LandDuration <= 0 {
		return fmt.Errorf("land_duration must be positive, got %s", c.LandDuration)
	}
	if c.MinLandDistance < 0 || c.MinLandDistance >= FullTurn {
		return fmt.Errorf("min_land_distance must be in [0, 360), got %v", c.MinLandDistance)
	}
	if c.NudgeDuration <= 0 {
		return fmt.Errorf("nudge_duration must be positive, got %s", c.NudgeDuration)
	}
	if c.ChainStepDelay < 0 {
		return fmt.Errorf("chain_step_delay must be non-negative, got %s", c.ChainStepDelay)
	}
	return nil
}
