// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package metrics registers the service's Prometheus collectors. All
// collectors register on the default registry and are served by the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmfinder_http_requests_total",
		Help: "HTTP requests handled, by route and status class.",
	}, []string{"route", "status"})

	// HTTPRequestDuration observes request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "filmfinder_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CatalogRequestsTotal counts outbound catalog API calls.
	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmfinder_catalog_requests_total",
		Help: "Catalog API calls, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// CatalogRequestDuration observes catalog call latency.
	CatalogRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "filmfinder_catalog_request_duration_seconds",
		Help:    "Catalog API call latency.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	// CircuitBreakerState exposes the catalog breaker state
	// (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "filmfinder_circuit_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"name"})

	// RecommendationsTotal counts recommendation requests by mode.
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmfinder_recommendations_total",
		Help: "Recommendation requests, by mode.",
	}, []string{"mode"})

	// CascadeTiersUsed observes how many weight tiers a tag-mode
	// recommendation had to relax through.
	CascadeTiersUsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filmfinder_cascade_tiers_used",
		Help:    "Weight tiers consumed per tag-mode recommendation.",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})

	// ExtractionDuration observes full tag extraction runs.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filmfinder_extraction_duration_seconds",
		Help:    "Tag extraction duration including keyword lookups.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	// ExtractionFailures counts per-movie lookup failures that degraded
	// to empty contributions.
	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmfinder_extraction_failures_total",
		Help: "Per-movie lookup failures degraded to empty contributions.",
	})

	// RecomputesDiscarded counts recomputes dropped by the profile
	// version guard.
	RecomputesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmfinder_recomputes_discarded_total",
		Help: "Tag recomputes discarded because the profile advanced.",
	})

	// KeywordCacheHits and KeywordCacheMisses track keyword-id
	// resolution caching.
	KeywordCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmfinder_keyword_cache_hits_total",
		Help: "Keyword-id cache hits.",
	})
	KeywordCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmfinder_keyword_cache_misses_total",
		Help: "Keyword-id cache misses.",
	})
)
