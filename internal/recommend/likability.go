// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package recommend

import (
	"math"
	"strings"

	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/tags"
)

// Likability bounds and the neutral default for profiles with no signal.
const (
	minLikability     = 50
	maxLikability     = 100
	defaultLikability = 70
)

// textMatchFactor doubles the contribution of keyword tags matched against
// the movie's text.
const textMatchFactor = 2

// ScoreLikability estimates how likely the profile is to enjoy the movie as
// a percentage. Each movie genre carried by the profile adds its weight to
// the score and the strongest profile genre weight to the achievable
// maximum. Keyword and custom tags whose name appears in the title or
// overview add double their weight to both sides; a miss contributes
// nothing. The ratio is clamped to the 50 to 100 band, and a movie the
// profile has no opinion on at all reads as the neutral default.
func ScoreLikability(profileTags []models.Tag, movie *models.Movie) int {
	if len(profileTags) == 0 || movie == nil {
		return defaultLikability
	}

	genreWeights := make(map[int]int)
	maxGenreWeight := 0
	var textTags []*models.Tag
	for i := range profileTags {
		t := &profileTags[i]
		if genreID, ok := t.ID.GenreID(); ok {
			w := tags.Weight(t)
			if w > genreWeights[genreID] {
				genreWeights[genreID] = w
			}
			if w > maxGenreWeight {
				maxGenreWeight = w
			}
			continue
		}
		textTags = append(textTags, t)
	}

	score, maxScore := 0, 0
	for _, genreID := range movie.GenreIDList() {
		w, ok := genreWeights[genreID]
		if !ok {
			continue
		}
		score += w
		maxScore += maxGenreWeight
	}

	haystack := strings.ToLower(movie.Title + " " + movie.Overview)
	for _, t := range textTags {
		name := strings.ToLower(t.BareName())
		if name == "" || !strings.Contains(haystack, name) {
			continue
		}
		boost := textMatchFactor * tags.Weight(t)
		score += boost
		maxScore += boost
	}

	if maxScore == 0 {
		return defaultLikability
	}

	pct := int(math.Round(float64(score) / float64(maxScore) * 100))
	if pct < minLikability {
		return minLikability
	}
	if pct > maxLikability {
		return maxLikability
	}
	return pct
}
