// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/catalog"
	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/models"
	"github.com/tomtom215/bookwheel/internal/session"
	ws "github.com/tomtom215/bookwheel/internal/websocket"
)

//nolint:gochecknoinits // keep request logs out of test output
func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// testEnv is a running stack: badger catalog, hub, session and router.
type testEnv struct {
	store   *catalog.BadgerStore
	hub     *ws.Hub
	session *session.Session
	handler *Handler
	server  http.Handler
}

func testSessionConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Engine.SpinDuration = 80 * time.Millisecond
	cfg.Engine.LandDuration = 40 * time.Millisecond
	cfg.Engine.NudgeDuration = 20 * time.Millisecond
	cfg.Engine.ChainStepDelay = 5 * time.Millisecond
	cfg.FrameInterval = 2 * time.Millisecond
	cfg.Seed = 11
	return cfg
}

// newTestEnv seeds n books (b1..bn) and starts the hub and session until
// the test ends. Rate limiting is disabled.
func newTestEnv(t *testing.T, n int) *testEnv {
	t.Helper()
	return newTestEnvWith(t, n, testSessionConfig(), DefaultHandlerConfig())
}

//nolint:gocritic // hugeParam: test helper
func newTestEnvWith(t *testing.T, n int, sessCfg session.Config, hcfg HandlerConfig) *testEnv {
	t.Helper()

	store, err := catalog.Open(catalog.Config{InMemory: true})
	if err != nil {
		t.Fatalf("catalog.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for i := 1; i <= n; i++ {
		book := &models.Book{
			ID:     fmt.Sprintf("b%d", i),
			Title:  fmt.Sprintf("Book %d", i),
			Rating: 4,
		}
		if err := store.PutBook(ctx, book); err != nil {
			t.Fatalf("PutBook() error = %v", err)
		}
	}

	hub := ws.NewHub()
	sess := session.New(sessCfg, store, hub)

	runCtx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan error, 1)
	sessDone := make(chan error, 1)
	go func() { hubDone <- hub.RunWithContext(runCtx) }()
	go func() { sessDone <- sess.Serve(runCtx) }()
	t.Cleanup(func() {
		cancel()
		for _, ch := range []chan error{sessDone, hubDone} {
			select {
			case <-ch:
			case <-time.After(2 * time.Second):
				t.Error("service did not stop")
			}
		}
	})

	handler := NewHandler(store, sess, hub, hcfg)
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		RateLimitDisabled:  true,
	})
	env := &testEnv{
		store:   store,
		hub:     hub,
		session: sess,
		handler: handler,
		server:  NewRouter(handler, mw).SetupChi(),
	}

	env.waitFor(t, func() bool {
		snap, err := sess.Snapshot(ctx)
		return err == nil && snap.ItemCount == n
	})
	return env
}

// do sends a request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// waitStopped waits until the wheel rests with no chain pending.
func (e *testEnv) waitStopped(t *testing.T) {
	t.Helper()
	e.waitFor(t, func() bool {
		snap, err := e.session.Snapshot(context.Background())
		return err == nil && snap.State == carousel.StateStopped && !snap.Chaining
	})
}

// decodeResponse decodes the envelope, with Data decoded into data when
// non-nil.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) models.APIResponse {
	t.Helper()
	var raw struct {
		Status   string           `json:"status"`
		Data     json.RawMessage  `json:"data"`
		Metadata models.Metadata  `json:"metadata"`
		Error    *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("Failed to decode data %s: %v", raw.Data, err)
		}
	}
	return models.APIResponse{
		Status:   raw.Status,
		Metadata: raw.Metadata,
		Error:    raw.Error,
	}
}

// assertError checks the status code and the envelope error code.
func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	resp := decodeResponse(t, w, nil)
	if resp.Status != "error" {
		t.Errorf("envelope status = %q, want error", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != code {
		t.Errorf("error = %+v, want code %s", resp.Error, code)
	}
}

// snapshotView mirrors carousel.Snapshot with the state as text.
type snapshotView struct {
	State         string       `json:"state"`
	Angle         float64      `json:"angle"`
	SelectedIndex *int         `json:"selected_index"`
	ItemCount     int          `json:"item_count"`
	Book          *models.Book `json:"book"`
	Chaining      bool         `json:"chaining"`
}
