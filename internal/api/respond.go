// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package api exposes the HTTP surface: movie browsing, recommendations and
// profile management, plus health and metrics endpoints.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"

	"github.com/theaipro/ai-film-finder/internal/logging"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("encode response failed")
	}
}

// writeError writes the uniform error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes and validates a JSON request body into dst.
func decodeBody(r *http.Request, validate *validator.Validate, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid field %q", verrs[0].Field())
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
