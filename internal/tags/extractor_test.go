// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/models"
)

type fakeGenres struct {
	genres []models.Genre
	err    error
	calls  int
}

func (f *fakeGenres) ListGenres(context.Context) ([]models.Genre, error) {
	f.calls++
	return f.genres, f.err
}

type fakeKeywords struct {
	byMovie map[int][]string
	errFor  map[int]error
}

func (f *fakeKeywords) GetKeywords(_ context.Context, movieID int) ([]string, error) {
	if err, ok := f.errFor[movieID]; ok {
		return nil, err
	}
	return f.byMovie[movieID], nil
}

func newTestExtractor(genres *fakeGenres, keywords *fakeKeywords) *Extractor {
	if genres == nil {
		genres = &fakeGenres{}
	}
	if keywords == nil {
		keywords = &fakeKeywords{}
	}
	return NewExtractor(genres, keywords, 5, 0, zerolog.Nop())
}

func actionMovie(id int) models.Movie {
	return models.Movie{ID: id, Genres: []models.Genre{{ID: 28, Name: "Action"}}}
}

func horrorMovie(id int) models.Movie {
	return models.Movie{ID: id, Genres: []models.Genre{{ID: 27, Name: "Horror"}}}
}

func TestExtractConfirmsRepeatedGenre(t *testing.T) {
	e := newTestExtractor(nil, nil)

	liked := []models.Movie{actionMovie(1), actionMovie(2), actionMovie(3)}
	got, err := e.Extract(context.Background(), liked, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	action := models.FindTag(got.LikedTags, models.GenreTagID(28))
	if action == nil {
		t.Fatal("action tag missing from liked tags")
	}
	if action.Occurrences != 3 {
		t.Errorf("occurrences = %d, want 3", action.Occurrences)
	}
	if len(action.MovieIDs) != 3 {
		t.Errorf("provenance = %v, want three movies", action.MovieIDs)
	}
	if models.FindTag(got.ConfirmedTags, models.GenreTagID(28)) == nil {
		t.Error("action tag not confirmed despite three occurrences")
	}
}

func TestExtractDislikedSignalBlocksConfirmation(t *testing.T) {
	e := newTestExtractor(nil, nil)

	liked := []models.Movie{actionMovie(1), actionMovie(2), actionMovie(3)}
	disliked := []models.Movie{horrorMovie(10), horrorMovie(11), horrorMovie(12)}
	got, err := e.Extract(context.Background(), liked, disliked)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	horror := models.FindTag(got.LikedTags, models.GenreTagID(27))
	if horror == nil {
		t.Fatal("horror tag missing")
	}
	if horror.NetScore() != -6 {
		t.Errorf("net score = %d, want -6", horror.NetScore())
	}
	if models.FindTag(got.ConfirmedTags, models.GenreTagID(27)) != nil {
		t.Error("disliked-only tag confirmed")
	}
}

func TestExtractFoldsKeywordSynonyms(t *testing.T) {
	keywords := &fakeKeywords{byMovie: map[int][]string{
		1: {"ufo"},
		2: {"alien invasion"},
	}}
	e := newTestExtractor(nil, keywords)

	got, err := e.Extract(context.Background(), []models.Movie{{ID: 1}, {ID: 2}}, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	alien := models.FindTag(got.LikedTags, models.KeywordTagID("alien"))
	if alien == nil {
		t.Fatal("alien tag missing, synonyms did not fold")
	}
	if alien.Occurrences != 2 {
		t.Errorf("occurrences = %d, want 2", alien.Occurrences)
	}
	if alien.Name != "alien" {
		t.Errorf("name = %q, want canonical alien", alien.Name)
	}
}

func TestExtractCountsKeywordOncePerMovie(t *testing.T) {
	keywords := &fakeKeywords{byMovie: map[int][]string{
		1: {"ufo", "alien", "extraterrestrial"},
	}}
	e := newTestExtractor(nil, keywords)

	got, err := e.Extract(context.Background(), []models.Movie{{ID: 1}}, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	alien := models.FindTag(got.LikedTags, models.KeywordTagID("alien"))
	if alien == nil {
		t.Fatal("alien tag missing")
	}
	if alien.Occurrences != 1 {
		t.Errorf("occurrences = %d, want 1 per movie", alien.Occurrences)
	}
}

func TestExtractDegradesOnKeywordFailure(t *testing.T) {
	keywords := &fakeKeywords{
		byMovie: map[int][]string{1: {"alien"}},
		errFor:  map[int]error{2: errors.New("upstream down")},
	}
	e := newTestExtractor(nil, keywords)

	got, err := e.Extract(context.Background(), []models.Movie{{ID: 1}, {ID: 2}}, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	alien := models.FindTag(got.LikedTags, models.KeywordTagID("alien"))
	if alien == nil || alien.Occurrences != 1 {
		t.Errorf("alien tag = %+v, want single occurrence from the healthy movie", alien)
	}
}

func TestExtractResolvesBareGenreIDs(t *testing.T) {
	genres := &fakeGenres{genres: []models.Genre{{ID: 28, Name: "Action"}}}
	e := newTestExtractor(genres, nil)

	liked := []models.Movie{{ID: 1, GenreIDs: []int{28}}, {ID: 2, GenreIDs: []int{28}}}
	got, err := e.Extract(context.Background(), liked, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	action := models.FindTag(got.LikedTags, models.GenreTagID(28))
	if action == nil || action.Name != "Action" {
		t.Errorf("action tag = %+v, want resolved name", action)
	}
	if genres.calls != 1 {
		t.Errorf("genre listing called %d times, want 1", genres.calls)
	}
}

func TestExtractSkipsUnresolvableGenres(t *testing.T) {
	genres := &fakeGenres{err: errors.New("upstream down")}
	e := newTestExtractor(genres, nil)

	liked := []models.Movie{
		{ID: 1, GenreIDs: []int{28}},
		actionMovie(2),
	}
	got, err := e.Extract(context.Background(), liked, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	action := models.FindTag(got.LikedTags, models.GenreTagID(28))
	if action == nil {
		t.Fatal("embedded genre should still contribute")
	}
	// Movie 1's bare id resolves through movie 2's embedded genre name even
	// though the catalog listing failed.
	if action.Occurrences != 2 {
		t.Errorf("occurrences = %d, want 2", action.Occurrences)
	}
}

func TestExtractHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestExtractor(nil, nil)
	if _, err := e.Extract(ctx, []models.Movie{{ID: 1}}, nil); err == nil {
		t.Error("Extract succeeded on canceled context")
	}
}
