// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/bookwheel/internal/api"
	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/config"
	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/session"
	"github.com/tomtom215/bookwheel/internal/supervisor"
	"github.com/tomtom215/bookwheel/internal/supervisor/services"
	ws "github.com/tomtom215/bookwheel/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Bookwheel with supervisor tree")
	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Bool("in_memory", cfg.Catalog.InMemory).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	badgerStore, err := catalog.Open(catalog.Config{
		Path:     cfg.Catalog.Path,
		InMemory: cfg.Catalog.InMemory,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer func() {
		if err := badgerStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()
	store := catalog.Instrument(badgerStore)

	if cfg.Catalog.SeedFile != "" {
		inserted, err := catalog.LoadSeed(ctx, store, cfg.Catalog.SeedFile)
		if err != nil {
			// Close catalog before fatal exit since defers do not run
			if closeErr := badgerStore.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing catalog")
			}
			logging.Fatal().Err(err).Str("file", cfg.Catalog.SeedFile).Msg("Failed to load seed file")
		}
		logging.Info().Int("inserted", inserted).Str("file", cfg.Catalog.SeedFile).Msg("Catalog seeded")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   supervisor.DefaultTreeConfig().FailureBackoff,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()
	sess := session.New(session.Config{
		Engine:        cfg.Carousel.Engine(),
		Layout:        cfg.Carousel.Layout(),
		Weights:       cfg.Carousel.Weights(),
		FrameInterval: cfg.Carousel.FrameInterval,
		Seed:          cfg.Carousel.Seed,
	}, store, wsHub)

	handler := api.NewHandler(store, sess, wsHub, api.HandlerConfig{
		CORSOrigins:     cfg.Security.CORSOrigins,
		ClickDebounce:   cfg.Carousel.ClickDebounce,
		LayoutCacheSize: cfg.Carousel.LayoutCacheSize,
	})
	middleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	// Carousel layer services
	tree.AddCarouselService(services.NewSessionService(sess))
	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	watchLogLevel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	awaitSupervisor(ctx, errCh)

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// awaitSupervisor blocks until the tree has stopped, either from a signal
// or on its own. ServeBackground delivers exactly one value and never
// closes the channel, so it is received once.
func awaitSupervisor(ctx context.Context, errCh <-chan error) {
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
}

// watchLogLevel reapplies the log level whenever the config file changes.
// Other settings still need a restart.
func watchLogLevel() {
	path := config.ConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("file", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("file", path).Msg("Config file watch disabled")
	}
}
