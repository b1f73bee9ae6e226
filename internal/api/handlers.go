// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/profile"
	"github.com/theaipro/ai-film-finder/internal/recommend"
	"github.com/theaipro/ai-film-finder/internal/tags"
	"github.com/theaipro/ai-film-finder/internal/tmdb"
)

// Handler carries the dependencies of the HTTP endpoints.
type Handler struct {
	catalog  tmdb.Catalog
	engine   *recommend.Engine
	profiles *profile.Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(catalog tmdb.Catalog, engine *recommend.Engine, profiles *profile.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		engine:   engine,
		profiles: profiles,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// movieView is a catalog movie with its poster resolved to an absolute URL.
type movieView struct {
	models.Movie
	PosterURL string `json:"poster_url"`
}

func (h *Handler) view(m models.Movie) movieView {
	return movieView{Movie: m, PosterURL: h.catalog.PosterURL(&m)}
}

func (h *Handler) views(movies []models.Movie) []movieView {
	out := make([]movieView, 0, len(movies))
	for i := range movies {
		out = append(out, h.view(movies[i]))
	}
	return out
}

type movieListView struct {
	Movies []movieView `json:"movies"`
}

// handlePopular serves GET /api/v1/movies/popular.
func (h *Handler) handlePopular(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListPopular(r.Context(), queryInt(r, "page", 1))
	if err != nil {
		h.catalogError(w, err, "list popular movies")
		return
	}
	writeJSON(w, http.StatusOK, movieListView{Movies: h.views(movies)})
}

// handleSearch serves GET /api/v1/movies/search.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter required")
		return
	}
	movies, err := h.catalog.Search(r.Context(), query, queryInt(r, "page", 1))
	if err != nil {
		h.catalogError(w, err, "search movies")
		return
	}
	writeJSON(w, http.StatusOK, movieListView{Movies: h.views(movies)})
}

// handleMovieDetails serves GET /api/v1/movies/{id}.
func (h *Handler) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	movie, err := h.catalog.GetDetails(r.Context(), id)
	if err != nil {
		h.catalogError(w, err, "get movie details")
		return
	}
	writeJSON(w, http.StatusOK, h.view(*movie))
}

// handleGenres serves GET /api/v1/genres.
func (h *Handler) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.ListGenres(r.Context())
	if err != nil {
		h.catalogError(w, err, "list genres")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Genre{"genres": genres})
}

// recommendRequest is the body of both recommendation endpoints.
type recommendRequest struct {
	Mood       string `json:"mood" validate:"omitempty,oneof=happy sad excited relaxed thoughtful tense"`
	StartTier  int    `json:"start_tier" validate:"gte=0"`
	ExcludeIDs []int  `json:"exclude_ids" validate:"max=500"`
}

// recommendationView wraps the engine response with resolved poster URLs.
type recommendationView struct {
	Movies     []movieView    `json:"movies"`
	Mode       recommend.Mode `json:"mode"`
	UsedTiers  int            `json:"used_tiers"`
	TotalTiers int            `json:"total_tiers"`
	Exhausted  bool           `json:"exhausted"`
}

// handleRecommendations serves POST /api/v1/recommendations. The same
// endpoint also serves show-more requests: the client passes the previous
// response's used tier count as start_tier together with the ids already on
// screen.
func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeBody(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.profiles.Get(r.Context())
	if err != nil {
		h.internalError(w, err, "load profile")
		return
	}

	mood := models.Mood(req.Mood)
	if mood == "" {
		mood = p.CurrentMood
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Profile:         p,
		Mood:            mood,
		StartTier:       req.StartTier,
		ExcludeMovieIDs: req.ExcludeIDs,
	})
	if err != nil {
		h.internalError(w, err, "compute recommendations")
		return
	}

	writeJSON(w, http.StatusOK, recommendationView{
		Movies:     h.views(resp.Movies),
		Mode:       resp.Mode,
		UsedTiers:  resp.UsedTiers,
		TotalTiers: resp.TotalTiers,
		Exhausted:  resp.Exhausted,
	})
}

// handleGetProfile serves GET /api/v1/profile.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context())
	if err != nil {
		h.internalError(w, err, "load profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleResetProfile serves DELETE /api/v1/profile.
func (h *Handler) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Reset(r.Context())
	if err != nil {
		h.internalError(w, err, "reset profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// profileInfoRequest is the body of PUT /api/v1/profile.
type profileInfoRequest struct {
	Name string `json:"name" validate:"max=100"`
	Bio  string `json:"bio" validate:"max=1000"`
}

// handleUpdateProfile serves PUT /api/v1/profile.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileInfoRequest
	if err := decodeBody(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profiles.UpdateInfo(r.Context(), req.Name, req.Bio)
	if err != nil {
		h.internalError(w, err, "update profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// rateMovieRequest is the body of the movie rating endpoints.
type rateMovieRequest struct {
	Movie models.Movie `json:"movie"`
}

// handleRateMovie builds the handler for one movie list mutation.
func (h *Handler) handleRateMovie(apply func(*http.Request, models.Movie) (*models.UserProfile, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rateMovieRequest
		if err := decodeBody(r, h.validate, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Movie.ID < 1 {
			writeError(w, http.StatusBadRequest, "movie id required")
			return
		}
		p, err := apply(r, req.Movie)
		if err != nil {
			h.internalError(w, err, "update movie lists")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// handleRemoveMovie serves DELETE /api/v1/profile/movies/{id}.
func (h *Handler) handleRemoveMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	p, err := h.profiles.RemoveMovie(r.Context(), id)
	if err != nil {
		h.internalError(w, err, "remove movie")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// tagNameRequest is the body of the tag creation endpoints.
type tagNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// handleAddTag serves POST /api/v1/profile/tags.
func (h *Handler) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req tagNameRequest
	if err := decodeBody(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profiles.AddLikedTag(r.Context(), req.Name)
	if err != nil {
		h.internalError(w, err, "add tag")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleAvoidTag serves POST /api/v1/profile/tags/avoid.
func (h *Handler) handleAvoidTag(w http.ResponseWriter, r *http.Request) {
	var req tagNameRequest
	if err := decodeBody(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profiles.AvoidTag(r.Context(), req.Name)
	if err != nil {
		h.internalError(w, err, "avoid tag")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleTagOp builds the handler for one tag id operation.
func (h *Handler) handleTagOp(op func(*http.Request, models.TagID) (*models.UserProfile, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := models.ParseTagID(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid tag id")
			return
		}
		p, err := op(r, id)
		if err != nil {
			if errors.Is(err, profile.ErrTagNotFound) {
				writeError(w, http.StatusNotFound, "tag not found")
				return
			}
			h.internalError(w, err, "update tags")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// moodRequest is the body of PUT /api/v1/profile/mood. An empty mood clears
// the selection.
type moodRequest struct {
	Mood string `json:"mood" validate:"omitempty,oneof=happy sad excited relaxed thoughtful tense"`
}

// handleSetMood serves PUT /api/v1/profile/mood.
func (h *Handler) handleSetMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decodeBody(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profiles.SetMood(r.Context(), models.Mood(req.Mood))
	if err != nil {
		h.internalError(w, err, "set mood")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleTagStats serves GET /api/v1/profile/tags/stats.
func (h *Handler) handleTagStats(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context())
	if err != nil {
		h.internalError(w, err, "load profile")
		return
	}
	writeJSON(w, http.StatusOK, tags.Analyze(p.LikedTags, p.ConfirmedTags))
}

// handleHealth serves GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) catalogError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, tmdb.ErrNotFound) {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	h.logger.Error().Err(err).Str("action", action).Msg("catalog request failed")
	writeError(w, http.StatusBadGateway, "catalog unavailable")
}

func (h *Handler) internalError(w http.ResponseWriter, err error, action string) {
	h.logger.Error().Err(err).Str("action", action).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
