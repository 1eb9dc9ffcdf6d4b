// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/supervisor"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// runAwait calls awaitSupervisor and fails the test if it has not returned
// within a few seconds.
func runAwait(t *testing.T, ctx context.Context, errCh <-chan error) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		awaitSupervisor(ctx, errCh)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("awaitSupervisor still blocked 3s after the tree stopped")
	}
}

func TestAwaitSupervisor_ReturnsAfterShutdown(t *testing.T) {
	cfg := supervisor.DefaultTreeConfig()
	cfg.ShutdownTimeout = time.Second
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	cancel()

	runAwait(t, ctx, errCh)
}

func TestAwaitSupervisor_ReturnsWhenTreeFails(t *testing.T) {
	errCh := make(chan error, 1)
	errCh <- errors.New("tree failed")

	runAwait(t, context.Background(), errCh)
}
