// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package recommend implements the recommendation engine: a cascading
// tag-tier discovery with a popularity fallback, a mood-driven mode, and
// likability scoring of the results.
package recommend

import (
	"context"

	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/tmdb"
)

// Mode identifies which strategy produced a recommendation set.
type Mode string

const (
	// ModeTags is the weighted tag-tier cascade.
	ModeTags Mode = "tags"

	// ModeMood is the single mood-to-genre query.
	ModeMood Mode = "mood"

	// ModePopular is the popularity fallback for profiles with no usable
	// tag signal.
	ModePopular Mode = "popular"
)

// Catalog is the slice of the movie catalog the engine consumes.
type Catalog interface {
	Discover(ctx context.Context, filter tmdb.DiscoverFilter) ([]models.Movie, error)
	ListPopular(ctx context.Context, page int) ([]models.Movie, error)
	ResolveKeywordIDs(ctx context.Context, names []string) []int
}

// Request parameterizes one recommendation run.
type Request struct {
	// Profile is the taste profile to recommend against.
	Profile *models.UserProfile

	// Mood, when set, switches the engine to mood mode.
	Mood models.Mood

	// StartTier skips the first tiers of the cascade. A show-more request
	// passes the previous response's UsedTiers here to relax the match.
	StartTier int

	// ExcludeMovieIDs removes already shown movies from the results, on
	// top of the profile's own rated and saved movies.
	ExcludeMovieIDs []int
}

// Response is one recommendation set with its cascade bookkeeping.
type Response struct {
	// Movies is the scored result list, strongest likability first.
	Movies []models.Movie `json:"movies"`

	// Mode is the strategy that produced the set.
	Mode Mode `json:"mode"`

	// UsedTiers is the number of tiers consumed so far. A follow-up
	// show-more request passes it back as StartTier.
	UsedTiers int `json:"used_tiers"`

	// TotalTiers is the total number of weight tiers the profile yields.
	TotalTiers int `json:"total_tiers"`

	// Exhausted reports that no further tier relaxation is possible.
	Exhausted bool `json:"exhausted"`
}
