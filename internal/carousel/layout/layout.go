// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

// Package layout maps a wheel angle and a viewport to per-card transforms.
//
// Compute is pure: it keeps no state between calls and never returns NaN
// or infinite coordinates. Card i sits at angle + i*360/n; the wheel
// center is offset so that a card exactly at the selection angle renders
// at the center of the viewport. Only cards inside the visible arc plus a
// fade arc on each side are emitted.
package layout

import (
	"errors"
	"math"
)

// Z-index bands.
const (
	ZSelected = 1000 // featured card while stopped
	ZNearest  = 900  // card closest to the selection angle while moving
	ZBase     = 100
)

// Config holds the geometry policy.
type Config struct {
	// SelectionAngle is where the featured card sits, in degrees.
	// Default: 40.
	SelectionAngle float64 `json:"selection_angle"`

	// RadiusFraction is the wheel radius as a fraction of the smaller
	// viewport dimension.
	// Default: 0.9.
	RadiusFraction float64 `json:"radius_fraction"`

	// WrapStart is the lower bound of the canonical angle range
	// [WrapStart, WrapStart+360).
	// Default: -60.
	WrapStart float64 `json:"wrap_start"`

	// VisibleStart and VisibleEnd bound the fully opaque arc.
	// Defaults: -20 and 100.
	VisibleStart float64 `json:"visible_start"`
	VisibleEnd   float64 `json:"visible_end"`

	// FadeArc is the width of the fade in and fade out arcs.
	// Default: 20.
	FadeArc float64 `json:"fade_arc"`

	// MinScale and MaxScale bound the card scale.
	// Defaults: 0.6 and 1.2.
	MinScale float64 `json:"min_scale"`
	MaxScale float64 `json:"max_scale"`

	// ScaleFalloff is the angular distance at which scale reaches MinScale.
	// Default: 80.
	ScaleFalloff float64 `json:"scale_falloff"`

	// DimFactor multiplies the opacity of non-selected cards while stopped.
	// Default: 0.45.
	DimFactor float64 `json:"dim_factor"`
}

// DefaultConfig returns the default geometry.
func DefaultConfig() Config {
	return Config{
		SelectionAngle: 40,
		RadiusFraction: 0.9,
		WrapStart:      -60,
		VisibleStart:   -20,
		VisibleEnd:     100,
		FadeArc:        20,
		MinScale:       0.6,
		MaxScale:       1.2,
		ScaleFalloff:   80,
		DimFactor:      0.45,
	}
}

// Validate checks that the arcs are ordered and the factors are usable.
//
//nolint:gocritic // hugeParam: value receiver is intentional for immutable semantics
func (c Config) Validate() error {
	for _, v := range []float64{c.SelectionAngle, c.RadiusFraction, c.WrapStart, c.VisibleStart,
		c.VisibleEnd, c.FadeArc, c.MinScale, c.MaxScale, c.ScaleFalloff, c.DimFactor} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("layout values must be finite")
		}
	}
	if c.RadiusFraction <= 0 {
		return errors.New("radius_fraction must be positive")
	}
	if c.VisibleEnd <= c.VisibleStart {
		return errors.New("visible_end must be greater than visible_start")
	}
	if c.FadeArc < 0 {
		return errors.New("fade_arc must be non-negative")
	}
	if c.VisibleStart-c.FadeArc < c.WrapStart || c.VisibleEnd+c.FadeArc >= c.WrapStart+360 {
		return errors.New("visible arc plus fade must lie inside the wrap range")
	}
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return errors.New("scales must satisfy 0 < min_scale <= max_scale")
	}
	if c.ScaleFalloff <= 0 {
		return errors.New("scale_falloff must be positive")
	}
	if c.DimFactor < 0 || c.DimFactor > 1 {
		return errors.New("dim_factor must be between 0 and 1")
	}
	return nil
}

// Input is everything the layout depends on.
type Input struct {
	Angle         float64
	ItemCount     int
	Width         float64
	Height        float64
	Stopped       bool
	SelectedIndex int // -1 when nothing is selected
}

// Card is the transform of one visible card.
type Card struct {
	Index    int     `json:"index"`
	Angle    float64 `json:"angle"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Opacity  float64 `json:"opacity"`
	ZIndex   int     `json:"z_index"`
	Selected bool    `json:"selected"`
}

// Frame is one computed layout. An empty frame has no cards.
type Frame struct {
	Cards   []Card  `json:"cards"`
	Radius  float64 `json:"radius"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
}

// WrapVisible wraps angle into [start, start+360).
func WrapVisible(angle, start float64) float64 {
	a := math.Mod(angle-start, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a + start
}

// Compute lays out the wheel. Empty or non-finite viewports, non-finite
// angles, and empty wheels give an empty frame.
//
//nolint:gocritic // hugeParam: Config passed by value so callers cannot mutate shared defaults
func Compute(in Input, cfg Config) Frame {
	if in.ItemCount <= 0 || !positive(in.Width) || !positive(in.Height) || !finite(in.Angle) {
		return Frame{Cards: []Card{}}
	}

	radius := cfg.RadiusFraction * math.Min(in.Width, in.Height)
	sel := cfg.SelectionAngle * math.Pi / 180
	// x = cx + r*cos(a), y = cy - r*sin(a) (screen y grows downward).
	centerX := in.Width/2 - radius*math.Cos(sel)
	centerY := in.Height/2 + radius*math.Sin(sel)

	hasSelection := in.Stopped && in.SelectedIndex >= 0 && in.SelectedIndex < in.ItemCount
	slot := 360 / float64(in.ItemCount)
	lo := cfg.VisibleStart - cfg.FadeArc
	hi := cfg.VisibleEnd + cfg.FadeArc

	cards := make([]Card, 0, in.ItemCount)
	nearest, nearestDist := -1, math.Inf(1)

	for i := 0; i < in.ItemCount; i++ {
		a := WrapVisible(in.Angle+float64(i)*slot, cfg.WrapStart)
		if a < lo || a > hi {
			continue
		}

		dist := math.Abs(a - cfg.SelectionAngle)
		rad := a * math.Pi / 180
		card := Card{
			Index:   i,
			Angle:   a,
			X:       centerX + radius*math.Cos(rad),
			Y:       centerY - radius*math.Sin(rad),
			Scale:   scaleAt(dist, &cfg),
			Opacity: opacityAt(a, &cfg),
			ZIndex:  ZBase + int(math.Round(math.Max(0, 180-dist))),
		}

		if hasSelection {
			if i == in.SelectedIndex {
				card.Selected = true
				card.Scale = cfg.MaxScale
				card.ZIndex = ZSelected
			} else {
				card.Opacity *= cfg.DimFactor
			}
		}

		if dist < nearestDist {
			nearest, nearestDist = len(cards), dist
		}
		cards = append(cards, card)
	}

	if !in.Stopped && nearest >= 0 {
		cards[nearest].ZIndex = ZNearest
	}

	return Frame{Cards: cards, Radius: radius, CenterX: centerX, CenterY: centerY}
}

// scaleAt falls off quadratically with distance. A non-positive falloff
// keeps MaxScale for the card exactly at the selection angle only.
func scaleAt(dist float64, cfg *Config) float64 {
	if !positive(cfg.ScaleFalloff) {
		if dist == 0 {
			return cfg.MaxScale
		}
		return cfg.MinScale
	}
	t := clamp01(1 - dist/cfg.ScaleFalloff)
	return cfg.MinScale + (cfg.MaxScale-cfg.MinScale)*t*t
}

func opacityAt(a float64, cfg *Config) float64 {
	switch {
	case a < cfg.VisibleStart:
		if cfg.FadeArc == 0 {
			return 0
		}
		return clamp01((a - (cfg.VisibleStart - cfg.FadeArc)) / cfg.FadeArc)
	case a > cfg.VisibleEnd:
		if cfg.FadeArc == 0 {
			return 0
		}
		return clamp01((cfg.VisibleEnd + cfg.FadeArc - a) / cfg.FadeArc)
	default:
		return 1
	}
}

// clamp01 maps NaN to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
