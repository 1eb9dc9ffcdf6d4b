// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
// Every easing here is monotonic with f(0) = 0 and f(1) = 1.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 {
	return clamp01(t)
}

// EaseInOutCubic starts and ends with zero velocity.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// EaseOutCubic starts at full velocity and ends with zero velocity.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

func clamp01(t float64) float64 {
	switch {
	case t <= 0 || t != t: // NaN
		return 0
	case t >= 1:
		return 1
	default:
		return t
	}
}
