// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/profile"
	"github.com/theaipro/ai-film-finder/internal/recommend"
	"github.com/theaipro/ai-film-finder/internal/tags"
	"github.com/theaipro/ai-film-finder/internal/tmdb"
)

type fakeCatalog struct{}

func (fakeCatalog) ListPopular(context.Context, int) ([]models.Movie, error) {
	return []models.Movie{
		{ID: 1, Title: "Popular One", PosterPath: "/one.jpg", GenreIDs: []int{28}},
		{ID: 2, Title: "Popular Two", GenreIDs: []int{35}},
	}, nil
}

func (fakeCatalog) Search(_ context.Context, query string, _ int) ([]models.Movie, error) {
	if query == "matrix" {
		return []models.Movie{{ID: 603, Title: "The Matrix"}}, nil
	}
	return nil, nil
}

func (fakeCatalog) GetDetails(_ context.Context, movieID int) (*models.Movie, error) {
	if movieID == 603 {
		return &models.Movie{ID: 603, Title: "The Matrix", Genres: []models.Genre{{ID: 28, Name: "Action"}}}, nil
	}
	return nil, tmdb.ErrNotFound
}

func (fakeCatalog) ListGenres(context.Context) ([]models.Genre, error) {
	return []models.Genre{{ID: 28, Name: "Action"}}, nil
}

func (fakeCatalog) GetKeywords(context.Context, int) ([]string, error) {
	return []string{"alien"}, nil
}

func (fakeCatalog) Discover(context.Context, tmdb.DiscoverFilter) ([]models.Movie, error) {
	return []models.Movie{
		{ID: 10, Title: "Discovered", GenreIDs: []int{28}},
		{ID: 11, Title: "Also Discovered", GenreIDs: []int{28}},
	}, nil
}

func (fakeCatalog) ResolveKeywordIDs(_ context.Context, names []string) []int {
	return make([]int, len(names))
}

func (fakeCatalog) PosterURL(m *models.Movie) string {
	if m == nil || m.PosterPath == "" {
		return "/placeholder.png"
	}
	return "https://img.example/w500" + m.PosterPath
}

func newTestRouter(t *testing.T) (http.Handler, *profile.Service) {
	t.Helper()

	store, err := profile.NewBadgerStore(config.StorageConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	catalog := fakeCatalog{}
	extractor := tags.NewExtractor(catalog, catalog, 5, 0, zerolog.Nop())
	confidence := tags.NewConfidenceEngine(extractor, zerolog.Nop())
	profiles := profile.NewService(store, confidence, zerolog.Nop())
	t.Cleanup(profiles.Wait)

	engine := recommend.NewEngine(catalog, config.Default().Recommend, zerolog.Nop())
	handler := NewHandler(catalog, engine, profiles, zerolog.Nop())
	return NewRouter(handler, config.Default().Server, zerolog.Nop()), profiles
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestPopularMoviesCarryPosterURLs(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/v1/movies/popular", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Movies []struct {
			ID        int    `json:"id"`
			PosterURL string `json:"poster_url"`
		} `json:"movies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(resp.Movies))
	}
	if resp.Movies[0].PosterURL != "https://img.example/w500/one.jpg" {
		t.Errorf("poster url = %q", resp.Movies[0].PosterURL)
	}
	if resp.Movies[1].PosterURL != "/placeholder.png" {
		t.Errorf("fallback poster url = %q", resp.Movies[1].PosterURL)
	}
}

func TestSearchByQueryParameter(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/v1/movies/search?query=matrix", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Movies []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"movies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Movies) != 1 || resp.Movies[0].ID != 603 {
		t.Fatalf("got %+v, want the single matched movie", resp.Movies)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/v1/movies/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMovieDetailsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/v1/movies/42", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	router, profiles := newTestRouter(t)

	if _, err := profiles.AddLikedTag(context.Background(), "heist"); err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/recommendations", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Movies []struct {
			ID         int `json:"id"`
			Likability int `json:"likability_percentage"`
		} `json:"movies"`
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Movies) == 0 {
		t.Fatal("no movies returned")
	}
	for _, m := range resp.Movies {
		if m.Likability < 50 || m.Likability > 100 {
			t.Errorf("likability %d outside [50, 100]", m.Likability)
		}
	}
}

func TestRecommendationsMoodMode(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/recommendations", `{"mood":"tense"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Mode != "mood" {
		t.Errorf("mode = %q, want mood", resp.Mode)
	}
}

func TestRecommendationsRejectUnknownMood(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/recommendations", `{"mood":"grumpy"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLikeMovieEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"movie":{"id":603,"title":"The Matrix","genre_ids":[28]}}`
	rec := doRequest(t, router, http.MethodPost, "/api/v1/profile/movies/like", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p models.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(p.LikedMovies) != 1 || p.LikedMovies[0].ID != 603 {
		t.Errorf("liked movies = %+v, want The Matrix", p.LikedMovies)
	}
}

func TestLikeMovieRequiresID(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/profile/movies/like", `{"movie":{"title":"No ID"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPromoteUnknownTagReturns404(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/profile/tags/keyword-ghost/promote", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTagLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/profile/tags", `{"name":"slow burn"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add tag status = %d", rec.Code)
	}
	var p models.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(p.LikedTags) != 1 {
		t.Fatalf("liked tags = %+v, want one", p.LikedTags)
	}
	id := p.LikedTags[0].ID.String()

	rec = doRequest(t, router, http.MethodPost, "/api/v1/profile/tags/"+id+"/promote", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("promote status = %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/profile/tags/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestSetMoodValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/profile/mood", `{"mood":"tense"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPut, "/api/v1/profile/mood", `{"mood":"grumpy"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTagStatsEndpoint(t *testing.T) {
	router, profiles := newTestRouter(t)

	if _, err := profiles.AddLikedTag(context.Background(), "heist"); err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/profile/tags/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats struct {
		TotalTags int `json:"totalTags"`
		Threshold int `json:"threshold"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.TotalTags != 1 || stats.Threshold != 2 {
		t.Errorf("stats = %+v, want one tag and threshold 2", stats)
	}
}

func TestProfileResetEndpoint(t *testing.T) {
	router, profiles := newTestRouter(t)

	if _, err := profiles.AddLikedTag(context.Background(), "heist"); err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/profile/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var p models.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(p.LikedTags) != 0 {
		t.Errorf("liked tags = %+v, want empty after reset", p.LikedTags)
	}
}
