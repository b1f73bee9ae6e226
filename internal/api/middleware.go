// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/metrics"
)

// requestIDHeader carries the request id back to the client.
const requestIDHeader = "X-Request-ID"

// requestID assigns each request a UUID, honoring one supplied by the
// client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request and feeds the HTTP metrics. The
// route label uses the chi pattern, not the raw path, to keep cardinality
// bounded.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			logger.Info().
				Str("method", r.Method).
				Str("route", route).
				Int("status", ww.Status()).
				Dur("elapsed", elapsed).
				Str("request_id", w.Header().Get(requestIDHeader)).
				Msg("request")
		})
	}
}
