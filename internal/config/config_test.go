// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.TMDB.APIKey = "test-key"
	return cfg
}

func TestDefaultValidatesWithAPIKey(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.TMDB.APIKey = "" },
			wantErr: "tmdb.api_key",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.TMDB.RequestsPerSecond = 0 },
			wantErr: "requests_per_second",
		},
		{
			name:    "empty storage dir",
			mutate:  func(c *Config) { c.Storage.Dir = "" },
			wantErr: "storage.dir",
		},
		{
			name:    "in-memory allows empty dir",
			mutate:  func(c *Config) { c.Storage.Dir = ""; c.Storage.InMemory = true },
			wantErr: "",
		},
		{
			name:    "zero min results",
			mutate:  func(c *Config) { c.Recommend.MinResults = 0 },
			wantErr: "min_results",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.Extract.BatchSize = 0 },
			wantErr: "batch_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAppliesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "tmdb:\n  api_key: from-file\nserver:\n  port: 9001\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FILMFINDER_LOGGING__LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TMDB.APIKey != "from-file" {
		t.Errorf("api key = %q, want value from file", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want env override", cfg.Logging.Level)
	}
	if cfg.Recommend.MinResults != 6 {
		t.Errorf("min results = %d, want default 6", cfg.Recommend.MinResults)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Error("Load accepted an invalid config")
	}
}
