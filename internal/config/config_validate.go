// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/bookwheel/internal/logging"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateCarousel()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server read and write timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.InMemory && c.Catalog.Path == "" {
		return errors.New("CATALOG_PATH is required unless CATALOG_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateCarousel() error {
	if err := c.Carousel.Engine().Validate(); err != nil {
		return fmt.Errorf("carousel motion: %w", err)
	}
	if err := c.Carousel.Weights().Validate(); err != nil {
		return fmt.Errorf("carousel weighting: %w", err)
	}
	if err := c.Carousel.Layout().Validate(); err != nil {
		return fmt.Errorf("carousel layout: %w", err)
	}
	if c.Carousel.FrameInterval <= 0 {
		return fmt.Errorf("CAROUSEL_FRAME_INTERVAL must be positive, got %s", c.Carousel.FrameInterval)
	}
	if c.Carousel.ClickDebounce < 0 {
		return fmt.Errorf("CAROUSEL_CLICK_DEBOUNCE must be non-negative, got %s", c.Carousel.ClickDebounce)
	}
	if c.Carousel.LayoutCacheSize < 1 {
		return fmt.Errorf("CAROUSEL_LAYOUT_CACHE_SIZE must be at least 1, got %d", c.Carousel.LayoutCacheSize)
	}
	return nil
}
