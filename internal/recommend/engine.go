// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/config"
	"github.com/theaipro/ai-film-finder/internal/metrics"
	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/tags"
	"github.com/theaipro/ai-film-finder/internal/tmdb"
)

// minVoteCount filters thinly rated movies out of discover results.
const minVoteCount = 50

// maxFallbackPages bounds the popularity fallback.
const maxFallbackPages = 3

// Engine produces recommendation sets from a taste profile.
type Engine struct {
	catalog Catalog
	cfg     config.RecommendConfig
	logger  zerolog.Logger
}

// NewEngine creates an Engine.
func NewEngine(catalog Catalog, cfg config.RecommendConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		cfg:     cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend runs one recommendation pass. In mood mode a single genre query
// is issued; otherwise the weighted tag tiers are cascaded from StartTier
// until the minimum result count is met, with a popularity fallback when the
// tags alone cannot fill the set. Results are scored for likability and
// returned strongest first.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	if req.Profile == nil {
		return nil, fmt.Errorf("recommend: nil profile")
	}

	if req.Mood != "" {
		mood, err := models.ParseMood(string(req.Mood))
		if err != nil {
			return nil, fmt.Errorf("recommend: %w", err)
		}
		return e.recommendByMood(ctx, req, mood)
	}
	return e.recommendByTags(ctx, req)
}

// recommendByTags walks the weight tiers from req.StartTier, querying the
// catalog once per tier and accumulating unseen movies until the target
// count is reached or the tiers run out.
func (e *Engine) recommendByTags(ctx context.Context, req Request) (*Response, error) {
	p := req.Profile
	allTags := p.AllTags()
	tiers := tags.GroupTagsByWeight(allTags, e.cfg.TierDelta)

	exclude := models.MovieIDSet(
		models.MovieIDs(p.LikedMovies),
		models.MovieIDs(p.DislikedMovies),
		models.MovieIDs(p.AvoidedMovies),
		models.MovieIDs(p.WatchLaterMovies),
		req.ExcludeMovieIDs,
	)
	avoidedGenres, avoidedKeywordIDs := e.avoidance(ctx, p.AvoidedTags)

	start := req.StartTier
	if start < 0 {
		start = 0
	}

	var movies []models.Movie
	used := start
	for i := start; i < len(tiers) && len(movies) < e.cfg.MinResults; i++ {
		used = i + 1
		filter := e.tierFilter(ctx, tiers[i], avoidedGenres, avoidedKeywordIDs)
		if len(filter.GenreIDs) == 0 && len(filter.KeywordIDs) == 0 {
			continue
		}

		found, err := e.catalog.Discover(ctx, filter)
		if err != nil {
			e.logger.Warn().Int("tier", i).Err(err).Msg("tier query failed")
			continue
		}
		movies = appendUnseen(movies, found, exclude, avoidedGenres)
	}
	metrics.CascadeTiersUsed.Observe(float64(used - start))

	mode := ModeTags
	if len(tiers) == 0 {
		mode = ModePopular
	}
	if len(movies) < e.cfg.MinResults {
		fallback, err := e.popularFallback(ctx, e.cfg.MinResults-len(movies), exclude, avoidedGenres, models.MovieIDSet(models.MovieIDs(movies)))
		if err != nil {
			e.logger.Warn().Err(err).Msg("popularity fallback failed")
		}
		movies = append(movies, fallback...)
	}

	metrics.RecommendationsTotal.WithLabelValues(string(mode)).Inc()
	return &Response{
		Movies:     e.score(allTags, movies),
		Mode:       mode,
		UsedTiers:  used,
		TotalTiers: len(tiers),
		Exhausted:  used >= len(tiers),
	}, nil
}

// recommendByMood issues a single discover query over the mood's genre set.
// Matching any one of the genres qualifies a movie.
func (e *Engine) recommendByMood(ctx context.Context, req Request, mood models.Mood) (*Response, error) {
	p := req.Profile
	exclude := models.MovieIDSet(
		models.MovieIDs(p.LikedMovies),
		models.MovieIDs(p.DislikedMovies),
		models.MovieIDs(p.AvoidedMovies),
		models.MovieIDs(p.WatchLaterMovies),
		req.ExcludeMovieIDs,
	)
	avoidedGenres, avoidedKeywordIDs := e.avoidance(ctx, p.AvoidedTags)

	found, err := e.catalog.Discover(ctx, tmdb.DiscoverFilter{
		GenreIDs:          mood.GenreIDs(),
		MatchAnyGenre:     true,
		WithoutGenreIDs:   setToList(avoidedGenres),
		WithoutKeywordIDs: avoidedKeywordIDs,
		MinVoteCount:      minVoteCount,
	})
	if err != nil {
		return nil, fmt.Errorf("mood query: %w", err)
	}

	movies := appendUnseen(nil, found, exclude, avoidedGenres)
	metrics.RecommendationsTotal.WithLabelValues(string(ModeMood)).Inc()
	return &Response{
		Movies:    e.score(p.AllTags(), movies),
		Mode:      ModeMood,
		Exhausted: true,
	}, nil
}

// tierFilter builds the discover filter for one weight tier: the tier's
// genre tags become genre constraints, its keyword and custom tags are
// resolved to catalog keyword ids. Both lists are capped so a broad tier
// does not degenerate into an unmatchable query.
func (e *Engine) tierFilter(ctx context.Context, tier []models.Tag, avoidedGenres map[int]struct{}, avoidedKeywordIDs []int) tmdb.DiscoverFilter {
	var genreIDs []int
	var keywordNames []string
	for i := range tier {
		if id, ok := tier[i].ID.GenreID(); ok {
			if len(genreIDs) < e.cfg.MaxGenres {
				genreIDs = append(genreIDs, id)
			}
			continue
		}
		if len(keywordNames) < e.cfg.MaxKeywords {
			keywordNames = append(keywordNames, tier[i].BareName())
		}
	}

	return tmdb.DiscoverFilter{
		GenreIDs:          genreIDs,
		KeywordIDs:        e.catalog.ResolveKeywordIDs(ctx, keywordNames),
		WithoutGenreIDs:   setToList(avoidedGenres),
		WithoutKeywordIDs: avoidedKeywordIDs,
		MinVoteCount:      minVoteCount,
	}
}

// avoidance splits the avoided tags into a genre id set and resolved
// keyword ids.
func (e *Engine) avoidance(ctx context.Context, avoided []models.Tag) (map[int]struct{}, []int) {
	genres := make(map[int]struct{})
	var keywordNames []string
	for i := range avoided {
		if id, ok := avoided[i].ID.GenreID(); ok {
			genres[id] = struct{}{}
			continue
		}
		keywordNames = append(keywordNames, avoided[i].BareName())
	}
	return genres, e.catalog.ResolveKeywordIDs(ctx, keywordNames)
}

// popularFallback pulls popularity-chart pages until need movies pass the
// exclusion filters or the page budget runs out.
func (e *Engine) popularFallback(ctx context.Context, need int, exclude, avoidedGenres map[int]struct{}, already map[int]struct{}) ([]models.Movie, error) {
	var out []models.Movie
	for page := 1; page <= maxFallbackPages && len(out) < need; page++ {
		found, err := e.catalog.ListPopular(ctx, page)
		if err != nil {
			return out, fmt.Errorf("popular page %d: %w", page, err)
		}
		if len(found) == 0 {
			break
		}
		for i := range found {
			if len(out) >= need {
				break
			}
			m := found[i]
			if _, ok := exclude[m.ID]; ok {
				continue
			}
			if _, ok := already[m.ID]; ok {
				continue
			}
			if hasAnyGenre(&m, avoidedGenres) {
				continue
			}
			already[m.ID] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

// score assigns likability percentages and orders the set strongest first.
func (e *Engine) score(profileTags []models.Tag, movies []models.Movie) []models.Movie {
	for i := range movies {
		movies[i].Likability = ScoreLikability(profileTags, &movies[i])
	}
	sort.SliceStable(movies, func(i, j int) bool {
		if movies[i].Likability != movies[j].Likability {
			return movies[i].Likability > movies[j].Likability
		}
		return movies[i].VoteAverage > movies[j].VoteAverage
	})
	return movies
}

// appendUnseen appends movies that pass the exclusion and avoidance
// filters, deduplicating against what is already collected.
func appendUnseen(dst, src []models.Movie, exclude, avoidedGenres map[int]struct{}) []models.Movie {
	seen := models.MovieIDSet(models.MovieIDs(dst))
	for i := range src {
		m := src[i]
		if _, ok := exclude[m.ID]; ok {
			continue
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		if hasAnyGenre(&m, avoidedGenres) {
			continue
		}
		seen[m.ID] = struct{}{}
		dst = append(dst, m)
	}
	return dst
}

func hasAnyGenre(m *models.Movie, genres map[int]struct{}) bool {
	if len(genres) == 0 {
		return false
	}
	for _, id := range m.GenreIDList() {
		if _, ok := genres[id]; ok {
			return true
		}
	}
	return false
}

func setToList(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
