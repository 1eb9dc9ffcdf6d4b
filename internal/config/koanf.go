// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/carousel/selection"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bookwheel/config.yaml",
	"/etc/bookwheel/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	engine := carousel.DefaultConfig()
	weights := selection.DefaultWeightConfig()
	geometry := layout.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path: "/data/catalog",
		},
		Carousel: CarouselConfig{
			SelectionAngle:     engine.SelectionAngle,
			SpinDuration:       engine.SpinDuration,
			ExtraRevolutions:   engine.ExtraRevolutions,
			ContinuousVelocity: engine.ContinuousVelocity,
			LandDuration:       engine.LandDuration,
			MinLandDistance:    engine.MinLandDistance,
			NudgeDuration:      engine.NudgeDuration,
			ChainStepDelay:     engine.ChainStepDelay,
			FrameInterval:      carousel.DefaultFrameInterval,
			Seed:               0,

			ImpressionPenalty:   weights.ImpressionPenalty,
			MinImpressionFactor: weights.MinImpressionFactor,
			WishlistWeight:      weights.WishlistWeight,
			ClickWeight:         weights.ClickWeight,
			MaxEngagementBonus:  weights.MaxEngagementBonus,
			RecencyWindow:       weights.RecencyWindow,
			RecencyBonus:        weights.RecencyBonus,
			RatingThreshold:     weights.RatingThreshold,
			RatingBonus:         weights.RatingBonus,

			RadiusFraction: geometry.RadiusFraction,
			WrapStart:      geometry.WrapStart,
			VisibleStart:   geometry.VisibleStart,
			VisibleEnd:     geometry.VisibleEnd,
			FadeArc:        geometry.FadeArc,
			MinScale:       geometry.MinScale,
			MaxScale:       geometry.MaxScale,
			ScaleFalloff:   geometry.ScaleFalloff,
			DimFactor:      geometry.DimFactor,

			ClickDebounce:   2 * time.Second,
			LayoutCacheSize: 256,
		},
	}
}

// Load reads configuration with the precedence ENV > file > defaults and
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SERVER_PORT -> server.port, CAROUSEL_SPIN_DURATION -> carousel.spin_duration
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFile returns the config file Load reads, or "" when none exists.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile returns CONFIG_PATH when it exists, otherwise the first
// existing default path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	// Server
	"server_port":             "server.port",
	"http_port":               "server.port",
	"server_host":             "server.host",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"environment":             "server.environment",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":      "catalog.path",
	"catalog_in_memory": "catalog.in_memory",
	"catalog_seed_file": "catalog.seed_file",

	// Carousel motion
	"carousel_selection_angle":     "carousel.selection_angle",
	"carousel_spin_duration":       "carousel.spin_duration",
	"carousel_extra_revolutions":   "carousel.extra_revolutions",
	"carousel_continuous_velocity": "carousel.continuous_velocity",
	"carousel_land_duration":       "carousel.land_duration",
	"carousel_min_land_distance":   "carousel.min_land_distance",
	"carousel_nudge_duration":      "carousel.nudge_duration",
	"carousel_chain_step_delay":    "carousel.chain_step_delay",
	"carousel_frame_interval":      "carousel.frame_interval",
	"carousel_seed":                "carousel.seed",

	// Carousel weighting
	"carousel_impression_penalty":    "carousel.impression_penalty",
	"carousel_min_impression_factor": "carousel.min_impression_factor",
	"carousel_wishlist_weight":       "carousel.wishlist_weight",
	"carousel_click_weight":          "carousel.click_weight",
	"carousel_max_engagement_bonus":  "carousel.max_engagement_bonus",
	"carousel_recency_window":        "carousel.recency_window",
	"carousel_recency_bonus":         "carousel.recency_bonus",
	"carousel_rating_threshold":      "carousel.rating_threshold",
	"carousel_rating_bonus":          "carousel.rating_bonus",

	// Carousel API and layout
	"carousel_click_debounce":    "carousel.click_debounce",
	"carousel_layout_cache_size": "carousel.layout_cache_size",
	"carousel_radius_fraction":   "carousel.radius_fraction",
	"carousel_visible_start":     "carousel.visible_start",
	"carousel_visible_end":       "carousel.visible_end",
	"carousel_fade_arc":          "carousel.fade_arc",
	"carousel_min_scale":         "carousel.min_scale",
	"carousel_max_scale":         "carousel.max_scale",
	"carousel_scale_falloff":     "carousel.scale_falloff",
	"carousel_dim_factor":        "carousel.dim_factor",
	"carousel_wrap_start":        "carousel.wrap_start",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes. The
// caller serializes access to any configuration it reloads.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
