// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/models"
)

// NewRouter assembles the HTTP routing table.
func NewRouter(h *Handler, cfg config.ServerConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/movies", func(r chi.Router) {
			r.Get("/popular", h.handlePopular)
			r.Get("/search", h.handleSearch)
			r.Get("/{id}", h.handleMovieDetails)
		})
		r.Get("/genres", h.handleGenres)

		r.Post("/recommendations", h.handleRecommendations)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.handleGetProfile)
			r.Put("/", h.handleUpdateProfile)
			r.Delete("/", h.handleResetProfile)
			r.Put("/mood", h.handleSetMood)

			r.Route("/movies", func(r chi.Router) {
				r.Post("/like", h.handleRateMovie(func(req *http.Request, m models.Movie) (*models.UserProfile, error) {
					return h.profiles.LikeMovie(req.Context(), m)
				}))
				r.Post("/dislike", h.handleRateMovie(func(req *http.Request, m models.Movie) (*models.UserProfile, error) {
					return h.profiles.DislikeMovie(req.Context(), m)
				}))
				r.Post("/avoid", h.handleRateMovie(func(req *http.Request, m models.Movie) (*models.UserProfile, error) {
					return h.profiles.AvoidMovie(req.Context(), m)
				}))
				r.Post("/watch-later", h.handleRateMovie(func(req *http.Request, m models.Movie) (*models.UserProfile, error) {
					return h.profiles.WatchLater(req.Context(), m)
				}))
				r.Delete("/{id}", h.handleRemoveMovie)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", h.handleAddTag)
				r.Get("/stats", h.handleTagStats)
				r.Post("/avoid", h.handleAvoidTag)
				r.Delete("/{id}", h.handleTagOp(func(req *http.Request, id models.TagID) (*models.UserProfile, error) {
					return h.profiles.RemoveTag(req.Context(), id)
				}))
				r.Post("/{id}/promote", h.handleTagOp(func(req *http.Request, id models.TagID) (*models.UserProfile, error) {
					return h.profiles.PromoteTag(req.Context(), id)
				}))
				r.Post("/{id}/demote", h.handleTagOp(func(req *http.Request, id models.TagID) (*models.UserProfile, error) {
					return h.profiles.DemoteTag(req.Context(), id)
				}))
			})
		})
	})

	return r
}
