// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package tags

import (
	"math"

	"github.com/theaipro/ai-film-finder/internal/models"
)

// smallCollectionLimit is the tag count up to which the fixed threshold
// applies. Above it the threshold scales with collection size.
const smallCollectionLimit = 50

// fixedThreshold is the occurrence threshold for small tag collections.
const fixedThreshold = 2

// scalingRatio is the fraction of the collection size used as the threshold
// for large collections.
const scalingRatio = 0.05

// ConfirmationThreshold returns the minimum occurrence count a tag needs to
// be eligible for confirmation, given the total number of distinct tags.
func ConfirmationThreshold(tagCount int) int {
	if tagCount <= smallCollectionLimit {
		return fixedThreshold
	}
	return int(math.Ceil(float64(tagCount) * scalingRatio))
}

// ShouldConfirm reports whether a tag qualifies as a high-confidence signal:
// its net score must be positive and its occurrences must meet the
// threshold. A tag disliked as often as liked never confirms.
func ShouldConfirm(t *models.Tag, threshold int) bool {
	return t.NetScore() > 0 && t.Occurrences >= threshold
}
