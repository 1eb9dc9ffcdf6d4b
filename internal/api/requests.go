// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package api

// Request structs validated with go-playground/validator tags. The custom
// tags bookid and direction are registered in internal/validation.
//
// Example usage:
//
//	req := LayoutRequest{Width: width, Height: height}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondAPIError(w, http.StatusBadRequest, apiErr)
//	    return
//	}

// LayoutRequest holds the viewport for GET /carousel/layout.
type LayoutRequest struct {
	Width  float64 `validate:"gt=0,lte=16384"`
	Height float64 `validate:"gt=0,lte=16384"`
}

// LandRequest is the optional body of POST /carousel/land. A nil Index
// lands on a weighted draw.
type LandRequest struct {
	Index *int `json:"index" validate:"omitempty,gte=0"`
}

// NudgeRequest is the body of POST /carousel/nudge. Steps defaults to 1.
type NudgeRequest struct {
	Direction string `json:"direction" validate:"required,direction"`
	Steps     *int   `json:"steps" validate:"omitempty,gte=0,lte=1000"`
}

// MoveRequest is the body of POST /carousel/move.
type MoveRequest struct {
	BookID string `json:"book_id" validate:"required,bookid"`
}

// BookIDParam validates the {id} path parameter.
type BookIDParam struct {
	ID string `validate:"required,bookid"`
}
