// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/bookwheel/internal/carousel"
	"github.com/tomtom215/bookwheel/internal/carousel/layout"
	"github.com/tomtom215/bookwheel/internal/carousel/selection"
	"github.com/tomtom215/bookwheel/internal/logging"
	"github.com/tomtom215/bookwheel/internal/metrics"
	"github.com/tomtom215/bookwheel/internal/models"
)

// Default viewport for the layout endpoint.
const (
	defaultLayoutWidth  = 1000
	defaultLayoutHeight = 1000
)

// CarouselSnapshot returns the observable carousel state.
func (h *Handler) CarouselSnapshot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := h.session.Snapshot(r.Context())
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start)
}

// CarouselLayout returns card positions for the current angle in a
// width x height viewport. Frames are cached by wheel position and viewport.
func (h *Handler) CarouselLayout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	width, okW := parseFloatParam(r, "width", defaultLayoutWidth)
	height, okH := parseFloatParam(r, "height", defaultLayoutHeight)
	if !okW || !okH {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "width and height must be numbers", nil)
		return
	}
	req := LayoutRequest{Width: width, Height: height}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	snap, err := h.session.Snapshot(r.Context())
	if err != nil {
		respondSessionError(w, err)
		return
	}

	selected := -1
	if snap.SelectedIndex != nil {
		selected = *snap.SelectedIndex
	}
	stopped := snap.State == carousel.StateStopped
	key := fmt.Sprintf("%.6f|%d|%t|%d|%g|%g", snap.Angle, snap.ItemCount, stopped, selected, req.Width, req.Height)

	frame, hit := h.layoutCache.Get(key)
	metrics.RecordLayoutCache(hit)
	if !hit {
		frame = layout.Compute(layout.Input{
			Angle:         snap.Angle,
			ItemCount:     snap.ItemCount,
			Width:         req.Width,
			Height:        req.Height,
			Stopped:       stopped,
			SelectedIndex: selected,
		}, h.session.LayoutConfig())
		metrics.RecordLayoutFrame()
		h.layoutCache.Add(key, frame)
	}

	respondSuccess(w, http.StatusOK, frame, start)
}

// Spin starts a weighted spin and reports the target.
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res, err := h.session.Spin(r.Context())
	if err != nil {
		respondSessionError(w, err)
		return
	}
	logging.Ctx(r.Context()).Debug().Int("target", res.Index).Msg("Spin requested")
	respondSuccess(w, http.StatusOK, spinResult(res), start)
}

// StartContinuous starts unbounded rotation.
func (h *Handler) StartContinuous(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.session.StartContinuous(r.Context()); err != nil {
		respondSessionError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.CommandAccepted{Command: "continuous", Accepted: true}, start)
}

// Land stops a continuous spin, on the requested index or on a weighted draw.
func (h *Handler) Land(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req LandRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	res, err := h.session.Land(r.Context(), req.Index)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, spinResult(res), start)
}

// Nudge moves the wheel one or more slots.
func (h *Handler) Nudge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req NudgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	dir, err := carousel.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "direction must be left or right", nil)
		return
	}
	steps := 1
	if req.Steps != nil {
		steps = *req.Steps
	}

	if err := h.session.Nudge(r.Context(), dir, steps); err != nil {
		respondSessionError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.CommandAccepted{Command: "nudge", Accepted: true}, start)
}

// MoveToBook brings a book to the selection angle.
func (h *Handler) MoveToBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.session.MoveToBook(r.Context(), req.BookID); err != nil {
		respondSessionError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.CommandAccepted{Command: "move", Accepted: true}, start)
}

// ReloadPool refreshes the carousel pool from the catalog.
func (h *Handler) ReloadPool(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.session.Reload(r.Context()); err != nil {
		respondSessionError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.CommandAccepted{Command: "reload", Accepted: true}, start)
}

//nolint:gocritic // hugeParam: result is copied once per response
func spinResult(res selection.Result) models.SpinResult {
	return models.SpinResult{
		Index:    res.Index,
		Book:     res.Book,
		Weight:   res.Weight,
		Fallback: string(res.Fallback),
	}
}
