// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/metrics"
	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/tags"
)

// ErrTagNotFound is returned when a tag operation references a tag the
// profile does not hold, or one ineligible for the operation.
var ErrTagNotFound = errors.New("profile: tag not found")

// recomputeTimeout bounds one background tag recomputation.
const recomputeTimeout = 2 * time.Minute

// Service applies profile mutations. Rating changes schedule a background
// tag recomputation; its save is compare-and-swap on the snapshot version,
// so a recompute that lost the race to a newer mutation is discarded rather
// than clobbering it.
type Service struct {
	store      Store
	confidence *tags.ConfidenceEngine
	logger     zerolog.Logger

	// mu serializes every store write. Background recomputes take it only
	// for their final save, never during extraction.
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewService creates a Service.
func NewService(store Store, confidence *tags.ConfidenceEngine, logger zerolog.Logger) *Service {
	return &Service{
		store:      store,
		confidence: confidence,
		logger:     logger.With().Str("component", "profile").Logger(),
	}
}

// Get returns the current profile snapshot.
func (s *Service) Get(ctx context.Context) (*models.UserProfile, error) {
	return s.store.Load(ctx)
}

// Reset clears the profile.
func (s *Service) Reset(ctx context.Context) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reset(ctx)
}

// Wait blocks until all scheduled recomputations have finished. Called on
// shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

// mutation mutates a loaded profile in place. It reports whether anything
// changed and whether the change invalidates the derived tag sets.
type mutation func(p *models.UserProfile) (changed, recompute bool, err error)

// mutate runs one load-mutate-save cycle under the write lock.
func (s *Service) mutate(ctx context.Context, fn mutation) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	changed, recompute, err := fn(p)
	if err != nil {
		return nil, err
	}
	if !changed {
		return p, nil
	}

	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	if recompute {
		s.scheduleRecompute(p.Clone())
	}
	return p, nil
}

// scheduleRecompute re-derives the tag sets from the given snapshot in the
// background. If the profile has moved on by the time the result is ready,
// the stale result is discarded.
func (s *Service) scheduleRecompute(snapshot *models.UserProfile) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()

		next, err := s.confidence.Recompute(ctx, snapshot)
		if err != nil {
			s.logger.Error().Err(err).Msg("tag recompute failed")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.store.Save(ctx, next); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				metrics.RecomputesDiscarded.Inc()
				s.logger.Debug().Uint64("version", snapshot.Version).Msg("stale tag recompute discarded")
				return
			}
			s.logger.Error().Err(err).Msg("tag recompute save failed")
		}
	}()
}

// LikeMovie adds the movie to the liked set, removing it from every other
// list first.
func (s *Service) LikeMovie(ctx context.Context, movie models.Movie) (*models.UserProfile, error) {
	return s.rate(ctx, movie, func(p *models.UserProfile, m models.Movie) {
		p.LikedMovies = append(p.LikedMovies, m)
	})
}

// DislikeMovie adds the movie to the disliked set, removing it from every
// other list first.
func (s *Service) DislikeMovie(ctx context.Context, movie models.Movie) (*models.UserProfile, error) {
	return s.rate(ctx, movie, func(p *models.UserProfile, m models.Movie) {
		p.DislikedMovies = append(p.DislikedMovies, m)
	})
}

// AvoidMovie adds the movie to the avoided set, removing it from every
// other list first.
func (s *Service) AvoidMovie(ctx context.Context, movie models.Movie) (*models.UserProfile, error) {
	return s.rate(ctx, movie, func(p *models.UserProfile, m models.Movie) {
		p.AvoidedMovies = append(p.AvoidedMovies, m)
	})
}

// rate applies one movie rating with mutual exclusivity across the four
// movie lists, then schedules a tag recompute.
func (s *Service) rate(ctx context.Context, movie models.Movie, place func(*models.UserProfile, models.Movie)) (*models.UserProfile, error) {
	if movie.ID == 0 {
		return nil, fmt.Errorf("profile: movie id required")
	}
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		removeMovieEverywhere(p, movie.ID)
		place(p, movie)
		return true, true, nil
	})
}

// WatchLater saves the movie for later without rating it. A movie already
// rated stays rated; watch-later never overrides a rating.
func (s *Service) WatchLater(ctx context.Context, movie models.Movie) (*models.UserProfile, error) {
	if movie.ID == 0 {
		return nil, fmt.Errorf("profile: movie id required")
	}
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if containsMovie(p.LikedMovies, movie.ID) ||
			containsMovie(p.DislikedMovies, movie.ID) ||
			containsMovie(p.AvoidedMovies, movie.ID) ||
			containsMovie(p.WatchLaterMovies, movie.ID) {
			return false, false, nil
		}
		p.WatchLaterMovies = append(p.WatchLaterMovies, movie)
		return true, false, nil
	})
}

// RemoveMovie drops the movie from every list. Removing a rated movie
// invalidates the derived tags.
func (s *Service) RemoveMovie(ctx context.Context, movieID int) (*models.UserProfile, error) {
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		rated := containsMovie(p.LikedMovies, movieID) || containsMovie(p.DislikedMovies, movieID)
		changed := removeMovieEverywhere(p, movieID)
		return changed, rated, nil
	})
}

// AddLikedTag adds a manual custom tag to the liked set. Duplicate names,
// compared case-insensitively against both tag sets, are a no-op.
func (s *Service) AddLikedTag(ctx context.Context, name string) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile: tag name required")
	}
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if findTagByName(p.LikedTags, name) != nil || findTagByName(p.ConfirmedTags, name) != nil {
			return false, false, nil
		}
		p.LikedTags = append(p.LikedTags, models.Tag{
			ID:          models.CustomTagID(time.Now().UnixMilli()),
			Name:        name,
			Source:      models.SourceManual,
			Occurrences: 1,
		})
		return true, false, nil
	})
}

// AvoidTag marks a tag as avoided, removing it from the liked and confirmed
// sets if present.
func (s *Service) AvoidTag(ctx context.Context, name string) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile: tag name required")
	}
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if findTagByName(p.AvoidedTags, name) != nil {
			return false, false, nil
		}

		avoided := models.Tag{
			ID:     models.CustomTagID(time.Now().UnixMilli()),
			Name:   name,
			Source: models.SourceManual,
		}
		if existing := findTagByName(p.LikedTags, name); existing != nil {
			avoided = *existing
			p.LikedTags = models.RemoveTag(p.LikedTags, existing.ID)
		} else if existing := findTagByName(p.ConfirmedTags, name); existing != nil {
			avoided = *existing
			p.ConfirmedTags = models.RemoveTag(p.ConfirmedTags, existing.ID)
		}
		avoided.Confirmed = false
		avoided.Override = false
		avoided.Name = avoided.BareName()

		p.AvoidedTags = append(p.AvoidedTags, avoided)
		return true, false, nil
	})
}

// RemoveTag drops the tag from all three tag sets.
func (s *Service) RemoveTag(ctx context.Context, id models.TagID) (*models.UserProfile, error) {
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		before := len(p.LikedTags) + len(p.ConfirmedTags) + len(p.AvoidedTags)
		p.LikedTags = models.RemoveTag(p.LikedTags, id)
		p.ConfirmedTags = models.RemoveTag(p.ConfirmedTags, id)
		p.AvoidedTags = models.RemoveTag(p.AvoidedTags, id)
		after := len(p.LikedTags) + len(p.ConfirmedTags) + len(p.AvoidedTags)
		if before == after {
			return false, false, ErrTagNotFound
		}
		return true, false, nil
	})
}

// PromoteTag manually promotes a liked tag into the confirmed set.
func (s *Service) PromoteTag(ctx context.Context, id models.TagID) (*models.UserProfile, error) {
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if !s.confidence.Promote(p, id) {
			return false, false, ErrTagNotFound
		}
		return true, false, nil
	})
}

// DemoteTag reverses a manual promotion. Statistically confirmed tags are
// not demotable.
func (s *Service) DemoteTag(ctx context.Context, id models.TagID) (*models.UserProfile, error) {
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if !s.confidence.Demote(p, id) {
			return false, false, ErrTagNotFound
		}
		return true, false, nil
	})
}

// SetMood sets or clears the current mood.
func (s *Service) SetMood(ctx context.Context, mood models.Mood) (*models.UserProfile, error) {
	if mood != "" && !mood.Valid() {
		return nil, fmt.Errorf("profile: unknown mood %q", mood)
	}
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if p.CurrentMood == mood {
			return false, false, nil
		}
		p.CurrentMood = mood
		return true, false, nil
	})
}

// UpdateInfo sets the display name and bio.
func (s *Service) UpdateInfo(ctx context.Context, name, bio string) (*models.UserProfile, error) {
	return s.mutate(ctx, func(p *models.UserProfile) (bool, bool, error) {
		if p.Name == name && p.Bio == bio {
			return false, false, nil
		}
		p.Name = name
		p.Bio = bio
		return true, false, nil
	})
}

// removeMovieEverywhere drops the movie id from all four movie lists.
func removeMovieEverywhere(p *models.UserProfile, movieID int) bool {
	changed := false
	p.LikedMovies, changed = removeMovie(p.LikedMovies, movieID, changed)
	p.DislikedMovies, changed = removeMovie(p.DislikedMovies, movieID, changed)
	p.AvoidedMovies, changed = removeMovie(p.AvoidedMovies, movieID, changed)
	p.WatchLaterMovies, changed = removeMovie(p.WatchLaterMovies, movieID, changed)
	return changed
}

func removeMovie(movies []models.Movie, movieID int, changed bool) ([]models.Movie, bool) {
	for i := range movies {
		if movies[i].ID == movieID {
			return append(movies[:i], movies[i+1:]...), true
		}
	}
	return movies, changed
}

func containsMovie(movies []models.Movie, movieID int) bool {
	for i := range movies {
		if movies[i].ID == movieID {
			return true
		}
	}
	return false
}

func findTagByName(list []models.Tag, name string) *models.Tag {
	for i := range list {
		if strings.EqualFold(list[i].BareName(), name) {
			return &list[i]
		}
	}
	return nil
}
