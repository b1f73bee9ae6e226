// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package config defines the service configuration and loads it through
// koanf with the precedence struct defaults < YAML file < environment.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server" json:"server"`
	Logging   LoggingConfig   `koanf:"logging" json:"logging"`
	TMDB      TMDBConfig      `koanf:"tmdb" json:"tmdb"`
	Storage   StorageConfig   `koanf:"storage" json:"storage"`
	Recommend RecommendConfig `koanf:"recommend" json:"recommend"`
	Extract   ExtractConfig   `koanf:"extract" json:"extract"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host" json:"host"`

	// Port is the listen port.
	Port int `koanf:"port" json:"port"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `koanf:"read_timeout" json:"read_timeout"`

	// WriteTimeout bounds response writes. Recommendation requests may
	// fan out several catalog calls, so this is generous.
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`

	// RateLimit is the per-IP request limit per minute. Zero disables.
	RateLimit int `koanf:"rate_limit" json:"rate_limit"`

	// CORSOrigins lists allowed origins for the browser client.
	CORSOrigins []string `koanf:"cors_origins" json:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `koanf:"level" json:"level"`

	// Format is json or console.
	Format string `koanf:"format" json:"format"`

	// Caller includes caller information.
	Caller bool `koanf:"caller" json:"caller"`
}

// TMDBConfig holds catalog API settings.
type TMDBConfig struct {
	// BaseURL is the catalog API root.
	BaseURL string `koanf:"base_url" json:"base_url"`

	// APIKey authenticates catalog requests.
	APIKey string `koanf:"api_key" json:"api_key"`

	// Language is the catalog response language.
	Language string `koanf:"language" json:"language"`

	// ImageBaseURL is the poster CDN root.
	ImageBaseURL string `koanf:"image_base_url" json:"image_base_url"`

	// PlaceholderPath is served for movies without a poster.
	PlaceholderPath string `koanf:"placeholder_path" json:"placeholder_path"`

	// Timeout bounds a single catalog request.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`

	// RequestsPerSecond is the client-side token-bucket rate.
	RequestsPerSecond float64 `koanf:"requests_per_second" json:"requests_per_second"`

	// Burst is the token-bucket burst size.
	Burst int `koanf:"burst" json:"burst"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled" json:"breaker_enabled"`

	// KeywordCacheSize bounds the keyword-id resolution cache.
	KeywordCacheSize int `koanf:"keyword_cache_size" json:"keyword_cache_size"`

	// KeywordCacheTTL expires keyword-id resolution entries.
	KeywordCacheTTL time.Duration `koanf:"keyword_cache_ttl" json:"keyword_cache_ttl"`
}

// StorageConfig holds profile persistence settings.
type StorageConfig struct {
	// Dir is the badger database directory.
	Dir string `koanf:"dir" json:"dir"`

	// InMemory runs badger without disk persistence. Used by tests.
	InMemory bool `koanf:"in_memory" json:"in_memory"`

	// GCInterval is the badger value-log GC cadence.
	GCInterval time.Duration `koanf:"gc_interval" json:"gc_interval"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// MinResults is the cascade's minimum result target.
	MinResults int `koanf:"min_results" json:"min_results"`

	// TierDelta is the maximum weight gap within a tier; a larger gap
	// starts a new tier.
	TierDelta int `koanf:"tier_delta" json:"tier_delta"`

	// MaxGenres caps the genre ids sent in one discover filter.
	MaxGenres int `koanf:"max_genres" json:"max_genres"`

	// MaxKeywords caps the keyword tags sent in one discover filter.
	MaxKeywords int `koanf:"max_keywords" json:"max_keywords"`
}

// ExtractConfig holds tag extraction settings.
type ExtractConfig struct {
	// BatchSize is the number of movies whose keyword lookups run
	// concurrently.
	BatchSize int `koanf:"batch_size" json:"batch_size"`

	// BatchPause separates consecutive batches to respect the catalog's
	// rate limits.
	BatchPause time.Duration `koanf:"batch_pause" json:"batch_pause"`
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8585,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       120,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Language:          "en-US",
			ImageBaseURL:      "https://image.tmdb.org/t/p",
			PlaceholderPath:   "/static/poster-placeholder.png",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 4,
			Burst:             8,
			BreakerEnabled:    true,
			KeywordCacheSize:  2048,
			KeywordCacheTTL:   time.Hour,
		},
		Storage: StorageConfig{
			Dir:        "/data/filmfinder",
			GCInterval: 10 * time.Minute,
		},
		Recommend: RecommendConfig{
			MinResults:  6,
			TierDelta:   2,
			MaxGenres:   5,
			MaxKeywords: 5,
		},
		Extract: ExtractConfig{
			BatchSize:  5,
			BatchPause: time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}

	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url must not be empty")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key must not be empty")
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %v", c.TMDB.Timeout)
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("tmdb.requests_per_second must be positive, got %f", c.TMDB.RequestsPerSecond)
	}
	if c.TMDB.Burst < 1 {
		return fmt.Errorf("tmdb.burst must be positive, got %d", c.TMDB.Burst)
	}

	if !c.Storage.InMemory && c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir must not be empty when persistence is enabled")
	}

	if c.Recommend.MinResults < 1 {
		return fmt.Errorf("recommend.min_results must be positive, got %d", c.Recommend.MinResults)
	}
	if c.Recommend.TierDelta < 0 {
		return fmt.Errorf("recommend.tier_delta must be non-negative, got %d", c.Recommend.TierDelta)
	}
	if c.Recommend.MaxGenres < 1 {
		return fmt.Errorf("recommend.max_genres must be positive, got %d", c.Recommend.MaxGenres)
	}
	if c.Recommend.MaxKeywords < 0 {
		return fmt.Errorf("recommend.max_keywords must be non-negative, got %d", c.Recommend.MaxKeywords)
	}

	if c.Extract.BatchSize < 1 {
		return fmt.Errorf("extract.batch_size must be positive, got %d", c.Extract.BatchSize)
	}
	if c.Extract.BatchPause < 0 {
		return fmt.Errorf("extract.batch_pause must be non-negative, got %v", c.Extract.BatchPause)
	}

	return nil
}
