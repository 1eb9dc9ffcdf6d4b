// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

// Package validation wraps go-playground/validator v10 with a singleton
// instance, catalog-specific tags and API-friendly error messages.
//
// Custom tags:
//   - bookid: catalog identifier, 1-128 of [A-Za-z0-9._:-]
//   - direction: "left" or "right", case-insensitive
//
// Failures are returned as *RequestValidationError, which converts to the
// VALIDATION_ERROR envelope via ToAPIError:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
