// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package profile persists the user taste profile and applies all profile
// mutations: rating movies, curating tags, mood selection and the
// asynchronous tag recomputation that follows rating changes.
package profile

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/models"
)

// ErrVersionConflict is returned by Save when the stored profile has moved
// past the snapshot the caller mutated.
var ErrVersionConflict = errors.New("profile: version conflict")

// profileKey is the single key the profile snapshot lives under.
var profileKey = []byte("profile/v1")

// gcDiscardRatio is the badger value-log GC threshold.
const gcDiscardRatio = 0.5

// Store is the persistence surface for profile snapshots. Save is
// compare-and-swap on the snapshot version so concurrent writers cannot
// silently overwrite each other.
type Store interface {
	Load(ctx context.Context) (*models.UserProfile, error)
	Save(ctx context.Context, p *models.UserProfile) error
	Reset(ctx context.Context) (*models.UserProfile, error)
	Close() error
}

// BadgerStore persists the profile in a badger key-value database.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerStore opens the profile database at cfg.Dir, or in memory when
// cfg.InMemory is set.
func NewBadgerStore(cfg config.StorageConfig, logger zerolog.Logger) (*BadgerStore, error) {
	storeLogger := logger.With().Str("component", "profile_store").Logger()

	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	if cfg.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}
	return &BadgerStore{db: db, logger: storeLogger}, nil
}

// Load reads the current profile snapshot. A missing snapshot yields a
// fresh empty profile at version zero. Snapshots written by older releases
// are migrated to the current shape on the way out.
func (s *BadgerStore) Load(_ context.Context) (*models.UserProfile, error) {
	var p *models.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			p = models.NewProfile()
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			p = &models.UserProfile{}
			return json.Unmarshal(val, p)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p.Normalize()
	return p, nil
}

// Save writes the snapshot if and only if the stored version still equals
// p.Version, then bumps p.Version. Callers seeing ErrVersionConflict must
// reload and either retry or discard their change.
func (s *BadgerStore) Save(_ context.Context, p *models.UserProfile) error {
	next := p.Clone()
	next.Version = p.Version + 1

	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		stored, err := currentVersion(txn)
		if err != nil {
			return err
		}
		if stored != p.Version {
			return fmt.Errorf("%w: stored %d, snapshot %d", ErrVersionConflict, stored, p.Version)
		}
		return txn.Set(profileKey, payload)
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("save profile: %w", err)
	}

	p.Version = next.Version
	return nil
}

// currentVersion reads the stored snapshot version inside txn. A missing
// snapshot reads as version zero.
func currentVersion(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get(profileKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var stored struct {
		Version uint64 `json:"version"`
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	})
	return stored.Version, err
}

// Reset drops the stored snapshot and returns a fresh profile.
func (s *BadgerStore) Reset(_ context.Context) (*models.UserProfile, error) {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(profileKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reset profile: %w", err)
	}
	s.logger.Info().Msg("profile reset")
	return models.NewProfile(), nil
}

// RunGC runs one badger value-log GC cycle. Returning badger.ErrNoRewrite
// is normal and reported as done=false.
func (s *BadgerStore) RunGC() (bool, error) {
	err := s.db.RunValueLogGC(gcDiscardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("profile store gc: %w", err)
	}
	return true, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close profile database: %w", err)
	}
	return nil
}
