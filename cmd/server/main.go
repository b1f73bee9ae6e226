// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Command server runs the film finder API.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/theaipro/ai-film-finder/internal/api"
	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/logging"
	"github.com/theaipro/ai-film-finder/internal/profile"
	"github.com/theaipro/ai-film-finder/internal/recommend"
	"github.com/theaipro/ai-film-finder/internal/server"
	"github.com/theaipro/ai-film-finder/internal/tags"
	"github.com/theaipro/ai-film-finder/internal/tmdb"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().
		Str("addr", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("starting film finder")

	store, err := profile.NewBadgerStore(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("closing profile store failed")
		}
	}()

	var catalog tmdb.Catalog = tmdb.NewClient(cfg.TMDB, logger)
	if cfg.TMDB.BreakerEnabled {
		catalog = tmdb.NewBreakerCatalog(catalog, logger)
	}

	extractor := tags.NewExtractor(catalog, catalog, cfg.Extract.BatchSize, cfg.Extract.BatchPause, logger)
	confidence := tags.NewConfidenceEngine(extractor, logger)
	profiles := profile.NewService(store, confidence, logger)
	engine := recommend.NewEngine(catalog, cfg.Recommend, logger)

	handler := api.NewHandler(catalog, engine, profiles, logger)
	router := api.NewRouter(handler, cfg.Server, logger)

	sup := suture.NewSimple("filmfinder")
	sup.Add(server.NewHTTPService(cfg.Server, router, logger))
	if !cfg.Storage.InMemory {
		sup.Add(server.NewGCService(store, cfg.Storage.GCInterval, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sup.Serve(ctx)
	stop()
	profiles.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
