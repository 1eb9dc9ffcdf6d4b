// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import "math"

// FullTurn is one revolution in degrees.
const FullTurn = 360.0

// NormalizeAngle wraps angle into [0, 360).
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	a := math.Mod(angle, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// -1e-15 mod 360 + 360 rounds to 360.
	if a >= FullTurn {
		a = 0
	}
	return a
}

// ShortestDelta returns the signed rotation in (-180, 180] that takes
// from to the same position as to.
func ShortestDelta(from, to float64) float64 {
	d := NormalizeAngle(to - from)
	if d > FullTurn/2 {
		d -= FullTurn
	}
	return d
}

// ForwardDelta returns the positive rotation in [0, 360) from from to to.
func ForwardDelta(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// SlotAngle returns the angle between adjacent cards, or 0 for an empty wheel.
func SlotAngle(itemCount int) float64 {
	if itemCount <= 0 {
		return 0
	}
	return FullTurn / float64(itemCount)
}

// RestingAngle returns the wheel angle in [0, 360) that places card index
// at selectionAngle. Card i sits at wheelAngle + i*slot.
func RestingAngle(index, itemCount int, selectionAngle float64) float64 {
	if itemCount <= 0 {
		return NormalizeAngle(selectionAngle)
	}
	return NormalizeAngle(selectionAngle - float64(index)*SlotAngle(itemCount))
}

// IndexAtAngle returns the card nearest selectionAngle for wheel angle, or
// -1 for an empty wheel.
func IndexAtAngle(angle float64, itemCount int, selectionAngle float64) int {
	if itemCount <= 0 {
		return -1
	}
	slots := ForwardDelta(angle, selectionAngle) / SlotAngle(itemCount)
	return WrapIndex(int(math.Round(slots)), itemCount)
}

// WrapIndex wraps i into [0, n). It returns 0 for n <= 0.
func WrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
