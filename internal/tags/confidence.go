// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/models"
)

// ConfidenceEngine recomputes a profile's tag sets from its rated movies and
// applies manual promotions and demotions. Manual promotions are overrides:
// they survive recomputation regardless of what the statistics say.
type ConfidenceEngine struct {
	extractor *Extractor
	logger    zerolog.Logger
}

// NewConfidenceEngine creates a ConfidenceEngine backed by the given
// extractor.
func NewConfidenceEngine(extractor *Extractor, logger zerolog.Logger) *ConfidenceEngine {
	return &ConfidenceEngine{
		extractor: extractor,
		logger:    logger.With().Str("component", "confidence").Logger(),
	}
}

// Recompute re-derives the liked and confirmed tag sets of the profile from
// its current liked and disliked movies. The returned profile is a modified
// clone; the input is not mutated. Manually added liked tags and override
// promotions are preserved, avoided tags are untouched.
func (c *ConfidenceEngine) Recompute(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	extraction, err := c.extractor.Extract(ctx, p.LikedMovies, p.DislikedMovies)
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}

	next := p.Clone()
	next.LikedTags = mergeManualLiked(extraction.LikedTags, p.LikedTags)
	next.ConfirmedTags = mergeConfirmed(extraction, p.ConfirmedTags)

	c.logger.Debug().
		Int("liked_tags", len(next.LikedTags)).
		Int("confirmed_tags", len(next.ConfirmedTags)).
		Msg("profile tags recomputed")
	return next, nil
}

// mergeManualLiked appends the previous set's manually added tags that the
// fresh extraction did not rediscover.
func mergeManualLiked(fresh, previous []models.Tag) []models.Tag {
	ids := make(map[models.TagID]struct{}, len(fresh))
	for i := range fresh {
		ids[fresh[i].ID] = struct{}{}
	}
	out := fresh
	for i := range previous {
		if previous[i].Source != models.SourceManual {
			continue
		}
		if _, ok := ids[previous[i].ID]; ok {
			continue
		}
		out = append(out, previous[i])
	}
	return out
}

// mergeConfirmed reconciles the fresh statistical confirmations with the
// previous confirmed set. Override entries are carried over with their
// counters refreshed from the extraction where available.
func mergeConfirmed(extraction *Extraction, previous []models.Tag) []models.Tag {
	freshByID := make(map[models.TagID]*models.Tag, len(extraction.LikedTags))
	for i := range extraction.LikedTags {
		freshByID[extraction.LikedTags[i].ID] = &extraction.LikedTags[i]
	}

	out := make([]models.Tag, 0, len(extraction.ConfirmedTags))
	kept := make(map[models.TagID]struct{})

	for i := range previous {
		if !previous[i].Override {
			continue
		}
		tag := previous[i]
		if fresh, ok := freshByID[tag.ID]; ok {
			tag.Occurrences = fresh.Occurrences
			tag.DislikedOccurrences = fresh.DislikedOccurrences
			tag.MovieIDs = fresh.MovieIDs
			tag.DislikedMovieIDs = fresh.DislikedMovieIDs
		}
		tag.Confirmed = true
		out = append(out, tag)
		kept[tag.ID] = struct{}{}
	}

	for _, tag := range extraction.ConfirmedTags {
		if _, ok := kept[tag.ID]; ok {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// Promote moves a liked tag into the confirmed set as a manual override,
// prefixing its name with the confirmed marker. It reports whether the
// profile changed; promoting an unknown or already confirmed tag is a no-op.
func (c *ConfidenceEngine) Promote(p *models.UserProfile, id models.TagID) bool {
	if models.FindTag(p.ConfirmedTags, id) != nil {
		return false
	}
	tag := models.FindTag(p.LikedTags, id)
	if tag == nil {
		return false
	}

	promoted := *tag
	promoted.Confirmed = true
	promoted.Override = true
	if !strings.HasPrefix(promoted.Name, models.ConfirmedMarker) {
		promoted.Name = models.ConfirmedMarker + " " + promoted.Name
	}

	p.LikedTags = models.RemoveTag(p.LikedTags, id)
	p.ConfirmedTags = append(p.ConfirmedTags, promoted)
	return true
}

// Demote moves a manually promoted tag back into the liked set, stripping
// the confirmed marker. Statistically confirmed tags cannot be demoted; the
// statistics would reinstate them on the next recompute.
func (c *ConfidenceEngine) Demote(p *models.UserProfile, id models.TagID) bool {
	tag := models.FindTag(p.ConfirmedTags, id)
	if tag == nil || !tag.Override {
		return false
	}

	demoted := *tag
	demoted.Confirmed = false
	demoted.Override = false
	demoted.Name = demoted.BareName()

	p.ConfirmedTags = models.RemoveTag(p.ConfirmedTags, id)
	if models.FindTag(p.LikedTags, id) == nil {
		p.LikedTags = append(p.LikedTags, demoted)
	}
	return true
}
