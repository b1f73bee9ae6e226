// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package profile

import (
	"context"
	"errors"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/models"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore(config.StorageConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestLoadMissingProfileYieldsEmpty(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Version != 0 {
		t.Errorf("version = %d, want 0", p.Version)
	}
	if p.LikedMovies == nil {
		t.Error("collections not normalized")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, _ := store.Load(ctx)
	p.Name = "test"
	p.LikedMovies = []models.Movie{{ID: 42, Title: "Test Movie"}}

	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("version after save = %d, want 1", p.Version)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version != 1 || loaded.Name != "test" || len(loaded.LikedMovies) != 1 {
		t.Errorf("loaded = %+v, round trip failed", loaded)
	}
}

func TestSaveDetectsVersionConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.Load(ctx)
	second := first.Clone()

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second.Name = "stale"
	err := store.Save(ctx, second)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale Save error = %v, want ErrVersionConflict", err)
	}

	loaded, _ := store.Load(ctx)
	if loaded.Name == "stale" {
		t.Error("stale snapshot overwrote the newer one")
	}
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, _ := store.Load(ctx)
	p.Name = "to be cleared"
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh, err := store.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if fresh.Name != "" || fresh.Version != 0 {
		t.Errorf("Reset returned %+v, want empty profile", fresh)
	}

	loaded, _ := store.Load(ctx)
	if loaded.Name != "" {
		t.Error("stored profile survived reset")
	}
}

func TestLoadMigratesLegacySnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Snapshots written by older releases carry one flat tags list.
	payload := []byte(`{
		"version": 3,
		"tags": [
			{"id": {"kind": "genre", "ref": "28"}, "name": "Action", "confirmed": true},
			{"id": {"kind": "keyword", "ref": "alien"}, "name": "alien"}
		]
	}`)
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey, payload)
	})
	if err != nil {
		t.Fatalf("seed legacy snapshot: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.ConfirmedTags) != 1 || loaded.ConfirmedTags[0].Name != "Action" {
		t.Errorf("ConfirmedTags = %+v, want migrated Action", loaded.ConfirmedTags)
	}
	if len(loaded.LikedTags) != 1 || loaded.LikedTags[0].Name != "alien" {
		t.Errorf("LikedTags = %+v, want migrated alien", loaded.LikedTags)
	}
	if loaded.Version != 3 {
		t.Errorf("version = %d, want preserved 3", loaded.Version)
	}
}
