// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package recommend

import (
	"testing"

	"github.com/theaipro/ai-film-finder/internal/models"
)

func TestScoreLikability(t *testing.T) {
	profileTags := []models.Tag{
		{ID: models.GenreTagID(28), Name: "Action", Occurrences: 4},
		{ID: models.KeywordTagID("alien"), Name: "alien", Occurrences: 1},
	}

	tests := []struct {
		name  string
		tags  []models.Tag
		movie models.Movie
		want  int
	}{
		{
			name:  "no profile signal defaults to neutral",
			tags:  nil,
			movie: models.Movie{ID: 1, GenreIDs: []int{28}},
			want:  70,
		},
		{
			name: "full match clamps to ceiling",
			tags: profileTags,
			movie: models.Movie{
				ID:       1,
				Title:    "Alien Siege",
				GenreIDs: []int{28},
			},
			want: 100,
		},
		{
			// Neither the genre nor the keyword applies, so nothing is
			// achievable and the neutral default holds.
			name:  "unrelated movie stays neutral",
			tags:  profileTags,
			movie: models.Movie{ID: 2, Title: "Quiet Garden", GenreIDs: []int{99}},
			want:  70,
		},
		{
			// The unmatched keyword contributes nothing to either side, so
			// the genre match alone is a perfect score.
			name:  "genre match undiluted by missed keyword",
			tags:  profileTags,
			movie: models.Movie{ID: 3, Title: "Fast Cars", GenreIDs: []int{28}},
			want:  100,
		},
		{
			name: "keyword miss alone stays neutral",
			tags: []models.Tag{{ID: models.KeywordTagID("alien"), Name: "alien", Occurrences: 1}},
			movie: models.Movie{
				ID:    4,
				Title: "Quiet Garden",
			},
			want: 70,
		},
		{
			// Weight 1 genre against an achievable 4 rounds to 25 and
			// clamps up to the floor.
			name: "weak genre match clamps to floor",
			tags: []models.Tag{
				{ID: models.GenreTagID(28), Name: "Action", Occurrences: 4},
				{ID: models.GenreTagID(12), Name: "Adventure", Occurrences: 1},
			},
			movie: models.Movie{ID: 5, Title: "Small Steps", GenreIDs: []int{12}},
			want:  50,
		},
		{
			// Both genres match: (4+2) of (4+4) achievable.
			name: "mixed genre weights land mid band",
			tags: []models.Tag{
				{ID: models.GenreTagID(28), Name: "Action", Occurrences: 4},
				{ID: models.GenreTagID(12), Name: "Adventure", Occurrences: 2},
			},
			movie: models.Movie{ID: 6, Title: "Jungle Run", GenreIDs: []int{28, 12}},
			want:  75,
		},
		{
			name: "keyword matches overview text",
			tags: []models.Tag{{ID: models.KeywordTagID("alien"), Name: "alien", Occurrences: 2}},
			movie: models.Movie{
				ID:       7,
				Title:    "First Contact",
				Overview: "An alien signal reaches Earth.",
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreLikability(tt.tags, &tt.movie); got != tt.want {
				t.Errorf("ScoreLikability() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreLikabilityConfirmedTagsDominate(t *testing.T) {
	tags := []models.Tag{
		{ID: models.GenreTagID(28), Name: "Action", Occurrences: 2, Confirmed: true},
		{ID: models.GenreTagID(35), Name: "Comedy", Occurrences: 2},
	}

	action := models.Movie{ID: 1, GenreIDs: []int{28}}
	comedy := models.Movie{ID: 2, GenreIDs: []int{35}}

	if a, c := ScoreLikability(tags, &action), ScoreLikability(tags, &comedy); a <= c {
		t.Errorf("confirmed genre scored %d, unconfirmed %d, want confirmed higher", a, c)
	}
}
