// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package models defines the shared data model for the personalization
// pipeline: movies, genres, tags with their tagged identifiers, moods and
// the user profile snapshot.
package models

// Genre is a resolved catalog genre.
type Genre struct {
	// ID is the catalog genre identifier.
	ID int `json:"id"`

	// Name is the display name.
	Name string `json:"name"`
}

// Movie is a catalog movie. Depending on the endpoint that produced it, the
// catalog embeds either the lightweight GenreIDs reference list or the fully
// resolved Genres; consumers must go through GenreIDList to support both.
type Movie struct {
	// ID is the catalog movie identifier.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Overview is the plot summary.
	Overview string `json:"overview"`

	// PosterPath is the catalog-relative poster path; empty when the movie
	// has no poster.
	PosterPath string `json:"poster_path,omitempty"`

	// ReleaseDate is the release date in YYYY-MM-DD form.
	ReleaseDate string `json:"release_date,omitempty"`

	// VoteAverage is the catalog vote average (0-10).
	VoteAverage float64 `json:"vote_average,omitempty"`

	// GenreIDs is the lightweight genre reference list (list endpoints).
	GenreIDs []int `json:"genre_ids,omitempty"`

	// Genres is the resolved genre list (detail endpoints).
	Genres []Genre `json:"genres,omitempty"`

	// Likability is the derived likability percentage (0-100). It is set
	// only by the recommendation pipeline and never persisted.
	Likability int `json:"likability_percentage,omitempty"`
}

// GenreIDList returns the movie's genre ids regardless of which of the two
// genre representations the catalog supplied.
func (m *Movie) GenreIDList() []int {
	if len(m.GenreIDs) > 0 {
		return m.GenreIDs
	}
	if len(m.Genres) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// MovieIDSet builds a membership set from one or more movie id slices.
func MovieIDSet(groups ...[]int) map[int]struct{} {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	set := make(map[int]struct{}, n)
	for _, g := range groups {
		for _, id := range g {
			set[id] = struct{}{}
		}
	}
	return set
}

// MovieIDs extracts the ids of a movie slice.
func MovieIDs(movies []Movie) []int {
	ids := make([]int, 0, len(movies))
	for i := range movies {
		ids = append(ids, movies[i].ID)
	}
	return ids
}
