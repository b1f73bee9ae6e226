// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package tags

import (
	"sort"

	"github.com/theaipro/ai-film-finder/internal/models"
)

// confirmedMultiplier doubles the weight of confirmed tags.
const confirmedMultiplier = 2

// overrideBonus is added to manually promoted tags on top of the confirmed
// multiplier.
const overrideBonus = 3

// Weight computes a tag's canonical weight. Occurrences are floored at one
// so manually added tags with no movie backing still carry signal.
func Weight(t *models.Tag) int {
	occ := t.Occurrences
	if occ < 1 {
		occ = 1
	}
	w := occ
	if t.Confirmed {
		w = confirmedMultiplier * occ
	}
	if t.Override {
		w += overrideBonus
	}
	return w
}

// GroupTagsByWeight sorts tags by descending weight and partitions them into
// tiers. A new tier starts whenever the weight drops by more than delta
// relative to the previous tag. Tier 0 therefore holds the strongest
// signals, later tiers progressively weaker ones.
func GroupTagsByWeight(tags []models.Tag, delta int) [][]models.Tag {
	if len(tags) == 0 {
		return nil
	}
	if delta < 0 {
		delta = 0
	}

	sorted := make([]models.Tag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		wi, wj := Weight(&sorted[i]), Weight(&sorted[j])
		if wi != wj {
			return wi > wj
		}
		return sorted[i].Name < sorted[j].Name
	})

	tiers := make([][]models.Tag, 0, 1)
	current := []models.Tag{sorted[0]}
	prev := Weight(&sorted[0])

	for i := 1; i < len(sorted); i++ {
		w := Weight(&sorted[i])
		if prev-w > delta {
			tiers = append(tiers, current)
			current = nil
		}
		current = append(current, sorted[i])
		prev = w
	}
	return append(tiers, current)
}

// CategorizeByKind groups tags by kind and tiers each kind's tags by
// weight. Used by the profile tag breakdown endpoint.
func CategorizeByKind(tags []models.Tag, delta int) map[models.TagKind][][]models.Tag {
	byKind := make(map[models.TagKind][]models.Tag)
	for i := range tags {
		byKind[tags[i].ID.Kind] = append(byKind[tags[i].ID.Kind], tags[i])
	}
	out := make(map[models.TagKind][][]models.Tag, len(byKind))
	for kind, group := range byKind {
		out[kind] = GroupTagsByWeight(group, delta)
	}
	return out
}
