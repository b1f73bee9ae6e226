// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package tmdb

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/theaipro/ai-film-finder/internal/metrics"
	"github.com/theaipro/ai-film-finder/internal/models"
)

// breakerName labels the catalog breaker in logs and metrics.
const breakerName = "tmdb"

// BreakerCatalog wraps a Catalog in a circuit breaker so a failing upstream
// sheds load instead of stalling every request on timeouts. Poster URL
// construction and keyword id resolution bypass the breaker: the former is
// local, the latter already degrades on its own.
type BreakerCatalog struct {
	inner   Catalog
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

// NewBreakerCatalog wraps inner with a circuit breaker. The breaker opens
// after five consecutive failures and probes again after thirty seconds.
func NewBreakerCatalog(inner Catalog, logger zerolog.Logger) *BreakerCatalog {
	componentLogger := logger.With().Str("component", "tmdb_breaker").Logger()

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			componentLogger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker state changed")
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(stateValue(gobreaker.StateClosed))
	return &BreakerCatalog{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  componentLogger,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}

// execute runs fn through the breaker and casts the result back to T.
func execute[T any](b *BreakerCatalog, fn func() (T, error)) (T, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (b *BreakerCatalog) ListPopular(ctx context.Context, page int) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) {
		return b.inner.ListPopular(ctx, page)
	})
}

func (b *BreakerCatalog) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) {
		return b.inner.Search(ctx, query, page)
	})
}

func (b *BreakerCatalog) GetDetails(ctx context.Context, movieID int) (*models.Movie, error) {
	return execute(b, func() (*models.Movie, error) {
		return b.inner.GetDetails(ctx, movieID)
	})
}

func (b *BreakerCatalog) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return execute(b, func() ([]models.Genre, error) {
		return b.inner.ListGenres(ctx)
	})
}

func (b *BreakerCatalog) GetKeywords(ctx context.Context, movieID int) ([]string, error) {
	return execute(b, func() ([]string, error) {
		return b.inner.GetKeywords(ctx, movieID)
	})
}

func (b *BreakerCatalog) Discover(ctx context.Context, filter DiscoverFilter) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) {
		return b.inner.Discover(ctx, filter)
	})
}

func (b *BreakerCatalog) ResolveKeywordIDs(ctx context.Context, names []string) []int {
	return b.inner.ResolveKeywordIDs(ctx, names)
}

func (b *BreakerCatalog) PosterURL(m *models.Movie) string {
	return b.inner.PosterURL(m)
}
