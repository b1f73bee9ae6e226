// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/profile"
)

// GCService periodically runs the profile store's value-log garbage
// collection.
type GCService struct {
	store    *profile.BadgerStore
	interval time.Duration
	logger   zerolog.Logger
}

// NewGCService creates a GCService.
func NewGCService(store *profile.BadgerStore, interval time.Duration, logger zerolog.Logger) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "store_gc").Logger(),
	}
}

// Serve runs GC cycles until ctx is canceled.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := g.store.RunGC()
			if err != nil {
				g.logger.Warn().Err(err).Msg("value log gc failed")
				continue
			}
			if done {
				g.logger.Debug().Msg("value log gc rewrote a file")
			}
		}
	}
}

func (g *GCService) String() string { return "store_gc" }
