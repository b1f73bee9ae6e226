// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package tags

import (
	"sort"

	"github.com/theaipro/ai-film-finder/internal/models"
)

// topTagLimit caps the strongest-signal list in a stats report.
const topTagLimit = 10

// TagSummary is one tag's row in a stats report.
type TagSummary struct {
	ID          models.TagID `json:"id"`
	Name        string       `json:"name"`
	Weight      int          `json:"weight"`
	Occurrences int          `json:"occurrences"`
	NetScore    int          `json:"netScore"`
}

// Stats summarizes a profile's tag collection for the insights endpoint.
type Stats struct {
	TotalTags          int            `json:"totalTags"`
	ConfirmedCount     int            `json:"confirmedCount"`
	OverrideCount      int            `json:"overrideCount"`
	Threshold          int            `json:"threshold"`
	AverageOccurrences float64        `json:"averageOccurrences"`
	CountByKind        map[string]int `json:"countByKind"`
	TopTags            []TagSummary   `json:"topTags"`
	ContestedTags      []TagSummary   `json:"contestedTags"`
}

// Analyze computes collection statistics over the union of liked and
// confirmed tags. Contested tags are those seen in liked movies whose net
// score has been dragged to zero or below by dislikes.
func Analyze(liked, confirmed []models.Tag) *Stats {
	all := make([]models.Tag, 0, len(liked)+len(confirmed))
	all = append(all, confirmed...)
	seen := make(map[models.TagID]struct{}, len(confirmed))
	for i := range confirmed {
		seen[confirmed[i].ID] = struct{}{}
	}
	for i := range liked {
		if _, ok := seen[liked[i].ID]; ok {
			continue
		}
		all = append(all, liked[i])
	}

	stats := &Stats{
		TotalTags:   len(all),
		Threshold:   ConfirmationThreshold(len(all)),
		CountByKind: make(map[string]int),
	}

	totalOccurrences := 0
	for i := range all {
		t := &all[i]
		totalOccurrences += t.Occurrences
		stats.CountByKind[t.ID.Kind.String()]++
		if t.Confirmed {
			stats.ConfirmedCount++
		}
		if t.Override {
			stats.OverrideCount++
		}
		if t.Occurrences > 0 && t.NetScore() <= 0 {
			stats.ContestedTags = append(stats.ContestedTags, summarize(t))
		}
	}
	if len(all) > 0 {
		stats.AverageOccurrences = float64(totalOccurrences) / float64(len(all))
	}

	sort.SliceStable(all, func(i, j int) bool {
		wi, wj := Weight(&all[i]), Weight(&all[j])
		if wi != wj {
			return wi > wj
		}
		return all[i].Name < all[j].Name
	})
	limit := topTagLimit
	if limit > len(all) {
		limit = len(all)
	}
	for i := 0; i < limit; i++ {
		stats.TopTags = append(stats.TopTags, summarize(&all[i]))
	}
	return stats
}

func summarize(t *models.Tag) TagSummary {
	return TagSummary{
		ID:          t.ID,
		Name:        t.BareName(),
		Weight:      Weight(t),
		Occurrences: t.Occurrences,
		NetScore:    t.NetScore(),
	}
}
