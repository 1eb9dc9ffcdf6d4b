// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package config

import (
	"time"

	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/carousel/selection"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Carousel CarouselConfig `koanf:"carousel"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development" or "production"
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds catalog storage settings.
type CatalogConfig struct {
	// Path is the badger data directory.
	Path string `koanf:"path"`

	// InMemory keeps the catalog in memory; Path is ignored.
	InMemory bool `koanf:"in_memory"`

	// SeedFile is an optional JSON array of books loaded at startup.
	SeedFile string `koanf:"seed_file"`
}

// CarouselConfig holds every engine parameter in one flat section.
// Defaults come from carousel.DefaultConfig, selection.DefaultWeightConfig
// and layout.DefaultConfig.
type CarouselConfig struct {
	// Motion
	SelectionAngle     float64       `koanf:"selection_angle"`
	SpinDuration       time.Duration `koanf:"spin_duration"`
	ExtraRevolutions   int           `koanf:"extra_revolutions"`
	ContinuousVelocity float64       `koanf:"continuous_velocity"`
	LandDuration       time.Duration `koanf:"land_duration"`
	MinLandDistance    float64       `koanf:"min_land_distance"`
	NudgeDuration      time.Duration `koanf:"nudge_duration"`
	ChainStepDelay     time.Duration `koanf:"chain_step_delay"`

	// FrameInterval is the animation tick of the live session.
	FrameInterval time.Duration `koanf:"frame_interval"`

	// Seed seeds the selection RNG. 0 means the fixed default seed.
	Seed uint64 `koanf:"seed"`

	// Weighting
	ImpressionPenalty   float64       `koanf:"impression_penalty"`
	MinImpressionFactor float64       `koanf:"min_impression_factor"`
	WishlistWeight      float64       `koanf:"wishlist_weight"`
	ClickWeight         float64       `koanf:"click_weight"`
	MaxEngagementBonus  float64       `koanf:"max_engagement_bonus"`
	RecencyWindow       time.Duration `koanf:"recency_window"`
	RecencyBonus        float64       `koanf:"recency_bonus"`
	RatingThreshold     float64       `koanf:"rating_threshold"`
	RatingBonus         float64       `koanf:"rating_bonus"`

	// Layout
	RadiusFraction float64 `koanf:"radius_fraction"`
	WrapStart      float64 `koanf:"wrap_start"`
	VisibleStart   float64 `koanf:"visible_start"`
	VisibleEnd     float64 `koanf:"visible_end"`
	FadeArc        float64 `koanf:"fade_arc"`
	MinScale       float64 `koanf:"min_scale"`
	MaxScale       float64 `koanf:"max_scale"`
	ScaleFalloff   float64 `koanf:"scale_falloff"`
	DimFactor      float64 `koanf:"dim_factor"`

	// API
	ClickDebounce   time.Duration `koanf:"click_debounce"`
	LayoutCacheSize int           `koanf:"layout_cache_size"`
}

// Engine returns the motion parameters.
func (c *CarouselConfig) Engine() carousel.Config {
	return carousel.Config{
		SelectionAngle:     c.SelectionAngle,
		SpinDuration:       c.SpinDuration,
		ExtraRevolutions:   c.ExtraRevolutions,
		ContinuousVelocity: c.ContinuousVelocity,
		LandDuration:       c.LandDuration,
		MinLandDistance:    c.MinLandDistance,
		NudgeDuration:      c.NudgeDuration,
		ChainStepDelay:     c.ChainStepDelay,
	}
}

// Weights returns the selection weighting policy.
func (c *CarouselConfig) Weights() selection.WeightConfig {
	return selection.WeightConfig{
		ImpressionPenalty:   c.ImpressionPenalty,
		MinImpressionFactor: c.MinImpressionFactor,
		WishlistWeight:      c.WishlistWeight,
		ClickWeight:         c.ClickWeight,
		MaxEngagementBonus:  c.MaxEngagementBonus,
		RecencyWindow:       c.RecencyWindow,
		RecencyBonus:        c.RecencyBonus,
		RatingThreshold:     c.RatingThreshold,
		RatingBonus:         c.RatingBonus,
	}
}

// Layout returns the card geometry. SelectionAngle is shared with the engine.
func (c *CarouselConfig) Layout() layout.Config {
	return layout.Config{
		SelectionAngle: c.SelectionAngle,
		RadiusFraction: c.RadiusFraction,
		WrapStart:      c.WrapStart,
		VisibleStart:   c.VisibleStart,
		VisibleEnd:     c.VisibleEnd,
		FadeArc:        c.FadeArc,
		MinScale:       c.MinScale,
		MaxScale:       c.MaxScale,
		ScaleFalloff:   c.ScaleFalloff,
		DimFactor:      c.DimFactor,
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
