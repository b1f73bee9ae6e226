// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package tmdb is the movie catalog client. It speaks the TMDB v3 API with
// client-side rate limiting, an optional circuit breaker and a cached
// keyword-name to keyword-id resolver used by discover filters.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/theaipro/ai-film-finder/internal/cache"
	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/metrics"
	"github.com/theaipro/ai-film-finder/internal/models"
)

// ErrNotFound is returned when the catalog has no record for the requested
// id.
var ErrNotFound = fmt.Errorf("catalog: not found")

// maxResponseBytes bounds a catalog response body.
const maxResponseBytes = 4 << 20

// posterSize is the CDN size segment used for poster URLs.
const posterSize = "w500"

// Catalog is the surface the rest of the application consumes. Implemented
// by Client and by the circuit breaker wrapper.
type Catalog interface {
	ListPopular(ctx context.Context, page int) ([]models.Movie, error)
	Search(ctx context.Context, query string, page int) ([]models.Movie, error)
	GetDetails(ctx context.Context, movieID int) (*models.Movie, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetKeywords(ctx context.Context, movieID int) ([]string, error)
	Discover(ctx context.Context, filter DiscoverFilter) ([]models.Movie, error)
	ResolveKeywordIDs(ctx context.Context, names []string) []int
	PosterURL(m *models.Movie) string
}

// DiscoverFilter parameterizes a discover query. Zero-valued fields are
// omitted from the request.
type DiscoverFilter struct {
	// GenreIDs are genre constraints, ANDed unless MatchAnyGenre is set.
	GenreIDs []int

	// MatchAnyGenre ORs the genre constraints instead of ANDing them.
	MatchAnyGenre bool

	// KeywordIDs are ORed keyword constraints.
	KeywordIDs []int

	// WithoutGenreIDs excludes movies carrying any of these genres.
	WithoutGenreIDs []int

	// WithoutKeywordIDs excludes movies carrying any of these keywords.
	WithoutKeywordIDs []int

	// SortBy is the catalog sort key, defaulting to popularity.desc.
	SortBy string

	// Page is the 1-based result page.
	Page int

	// MinVoteCount filters out thinly rated movies.
	MinVoteCount int
}

// Client is the concrete TMDB HTTP client.
type Client struct {
	baseURL         string
	apiKey          string
	language        string
	imageBaseURL    string
	placeholderPath string

	httpClient *http.Client
	limiter    *rate.Limiter
	keywordIDs *cache.LRU[int]

	logger zerolog.Logger
}

// NewClient creates a Client from catalog configuration.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		language:        cfg.Language,
		imageBaseURL:    strings.TrimRight(cfg.ImageBaseURL, "/"),
		placeholderPath: cfg.PlaceholderPath,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		limiter:         rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		keywordIDs:      cache.NewLRU[int](cfg.KeywordCacheSize, cfg.KeywordCacheTTL),
		logger:          logger.With().Str("component", "tmdb").Logger(),
	}
}

// movieListResponse is the envelope of list-shaped catalog endpoints.
type movieListResponse struct {
	Page         int            `json:"page"`
	Results      []models.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type genreListResponse struct {
	Genres []models.Genre `json:"genres"`
}

type keywordRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movieKeywordsResponse struct {
	ID       int          `json:"id"`
	Keywords []keywordRef `json:"keywords"`
}

type keywordSearchResponse struct {
	Results []keywordRef `json:"results"`
}

// ListPopular returns one page of the popularity chart.
func (c *Client) ListPopular(ctx context.Context, page int) ([]models.Movie, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var resp movieListResponse
	if err := c.get(ctx, "movie/popular", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Search runs a title search.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(pageOrFirst(page)))
	params.Set("include_adult", "false")

	var resp movieListResponse
	if err := c.get(ctx, "search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetDetails fetches a single movie with resolved genres.
func (c *Client) GetDetails(ctx context.Context, movieID int) (*models.Movie, error) {
	var movie models.Movie
	if err := c.get(ctx, "movie/"+strconv.Itoa(movieID), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListGenres fetches the genre id-to-name table.
func (c *Client) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// GetKeywords fetches a movie's keyword names.
func (c *Client) GetKeywords(ctx context.Context, movieID int) ([]string, error) {
	var resp movieKeywordsResponse
	if err := c.get(ctx, "movie/"+strconv.Itoa(movieID)+"/keywords", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Keywords))
	for _, kw := range resp.Keywords {
		names = append(names, kw.Name)
	}
	return names, nil
}

// Discover runs a filtered discover query.
func (c *Client) Discover(ctx context.Context, filter DiscoverFilter) ([]models.Movie, error) {
	params := url.Values{}
	params.Set("sort_by", sortOrDefault(filter.SortBy))
	params.Set("page", strconv.Itoa(pageOrFirst(filter.Page)))
	params.Set("include_adult", "false")
	if len(filter.GenreIDs) > 0 {
		sep := ","
		if filter.MatchAnyGenre {
			sep = "|"
		}
		params.Set("with_genres", joinInts(filter.GenreIDs, sep))
	}
	if len(filter.KeywordIDs) > 0 {
		params.Set("with_keywords", joinInts(filter.KeywordIDs, "|"))
	}
	if len(filter.WithoutGenreIDs) > 0 {
		params.Set("without_genres", joinInts(filter.WithoutGenreIDs, ","))
	}
	if len(filter.WithoutKeywordIDs) > 0 {
		params.Set("without_keywords", joinInts(filter.WithoutKeywordIDs, "|"))
	}
	if filter.MinVoteCount > 0 {
		params.Set("vote_count.gte", strconv.Itoa(filter.MinVoteCount))
	}

	var resp movieListResponse
	if err := c.get(ctx, "discover/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ResolveKeywordIDs maps keyword names to catalog keyword ids through the
// keyword search endpoint. Results are cached by slugged name. Names the
// catalog cannot resolve are dropped; resolution failures never fail the
// caller.
func (c *Client) ResolveKeywordIDs(ctx context.Context, names []string) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, ok := c.resolveKeywordID(ctx, name)
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Client) resolveKeywordID(ctx context.Context, name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return 0, false
	}
	if id, ok := c.keywordIDs.Get(key); ok {
		metrics.KeywordCacheHits.Inc()
		return id, id != 0
	}
	metrics.KeywordCacheMisses.Inc()

	params := url.Values{}
	params.Set("query", key)

	var resp keywordSearchResponse
	if err := c.get(ctx, "search/keyword", params, &resp); err != nil {
		c.logger.Warn().Str("keyword", key).Err(err).Msg("keyword id resolution failed")
		return 0, false
	}

	id := 0
	for _, kw := range resp.Results {
		if strings.EqualFold(kw.Name, key) {
			id = kw.ID
			break
		}
	}
	if id == 0 && len(resp.Results) > 0 {
		id = resp.Results[0].ID
	}

	// Unresolvable names are cached as zero so repeated lookups stay local.
	c.keywordIDs.Set(key, id)
	return id, id != 0
}

// PosterURL returns the absolute poster URL for a movie, falling back to the
// configured placeholder when the movie has no poster.
func (c *Client) PosterURL(m *models.Movie) string {
	if m == nil || m.PosterPath == "" {
		return c.placeholderPath
	}
	return c.imageBaseURL + "/" + posterSize + m.PosterPath
}

// get performs one rate-limited catalog GET and decodes the JSON body into
// out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog %s: rate limiter: %w", endpoint, err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("catalog %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("catalog %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
		return fmt.Errorf("catalog %s: %w", endpoint, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("catalog %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("catalog %s: decode response: %w", endpoint, err)
	}

	metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func sortOrDefault(sortBy string) string {
	if sortBy == "" {
		return "popularity.desc"
	}
	return sortBy
}

func joinInts(ids []int, sep string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, sep)
}
