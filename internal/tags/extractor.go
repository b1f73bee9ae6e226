// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package tags implements the taste-signal pipeline: extraction of genre
// and keyword tags from rated movie sets, the confidence engine that decides
// which tags are high-confidence signals, and the weighting that groups tags
// into ordered tiers for the recommendation cascade.
package tags

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theaipro/ai-film-finder/internal/metrics"
	"github.com/theaipro/ai-film-finder/internal/models"
	"github.com/theaipro/ai-film-finder/internal/semantic"
)

// GenreLister resolves catalog genre ids to names. Implemented by the tmdb
// client.
type GenreLister interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

// KeywordSource fetches the free-text keywords of a movie. Implemented by
// the tmdb client.
type KeywordSource interface {
	GetKeywords(ctx context.Context, movieID int) ([]string, error)
}

// Extraction is the result of a tag extraction run.
type Extraction struct {
	// LikedTags holds every derived tag, sorted by occurrences
	// descending.
	LikedTags []models.Tag

	// ConfirmedTags is the subset that met the confirmation threshold,
	// flagged Confirmed.
	ConfirmedTags []models.Tag

	// Threshold is the occurrence threshold applied.
	Threshold int
}

// Extractor derives genre and keyword tags from liked and disliked movie
// sets. Keyword lookups are fanned out in fixed-size batches with a pause
// between batches to respect the catalog's rate limits.
type Extractor struct {
	genres   GenreLister
	keywords KeywordSource

	batchSize  int
	batchPause time.Duration

	logger zerolog.Logger
}

// NewExtractor creates an Extractor. batchSize below 1 falls back to 5 and a
// negative batchPause to zero.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewExtractor(genres GenreLister, keywords KeywordSource, batchSize int, batchPause time.Duration, logger zerolog.Logger) *Extractor {
	if batchSize < 1 {
		batchSize = 5
	}
	if batchPause < 0 {
		batchPause = 0
	}
	return &Extractor{
		genres:     genres,
		keywords:   keywords,
		batchSize:  batchSize,
		batchPause: batchPause,
		logger:     logger.With().Str("component", "extractor").Logger(),
	}
}

// Extract derives tags from the liked and disliked sets. Lookup failures for
// individual movies degrade to empty contributions and are logged; Extract
// itself fails only on context cancellation.
func (e *Extractor) Extract(ctx context.Context, liked, disliked []models.Movie) (*Extraction, error) {
	start := time.Now()
	defer func() {
		metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	}()

	genreNames := e.resolveGenreNames(ctx, liked, disliked)

	likedKeywords, err := e.fetchKeywords(ctx, liked)
	if err != nil {
		return nil, err
	}
	dislikedKeywords, err := e.fetchKeywords(ctx, disliked)
	if err != nil {
		return nil, err
	}

	index := make(map[models.TagID]*models.Tag)
	for i := range liked {
		e.foldMovie(index, &liked[i], genreNames, likedKeywords[liked[i].ID], false)
	}
	for i := range disliked {
		e.foldMovie(index, &disliked[i], genreNames, dislikedKeywords[disliked[i].ID], true)
	}

	return e.buildExtraction(index), nil
}

// resolveGenreNames builds the id-to-name table used to label genre tags.
// The catalog list is consulted only when some movie carries bare genre ids;
// a failed listing degrades those movies to empty genre contributions.
func (e *Extractor) resolveGenreNames(ctx context.Context, liked, disliked []models.Movie) map[int]string {
	names := make(map[int]string)
	needsLookup := false

	collect := func(movies []models.Movie) {
		for i := range movies {
			for _, g := range movies[i].Genres {
				names[g.ID] = g.Name
			}
			if len(movies[i].Genres) == 0 && len(movies[i].GenreIDs) > 0 {
				needsLookup = true
			}
		}
	}
	collect(liked)
	collect(disliked)

	if !needsLookup {
		return names
	}

	listed, err := e.genres.ListGenres(ctx)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		e.logger.Warn().Err(err).Msg("genre listing failed, unresolved genre ids will be skipped")
		return names
	}
	for _, g := range listed {
		if _, ok := names[g.ID]; !ok {
			names[g.ID] = g.Name
		}
	}
	return names
}

// keywordResult carries one movie's keyword lookup outcome.
type keywordResult struct {
	movieID  int
	keywords []string
}

// fetchKeywords retrieves keywords for all movies in batches of batchSize.
// Lookups within a batch run concurrently; consecutive batches are separated
// by batchPause. A failed lookup yields an empty keyword set for that movie.
func (e *Extractor) fetchKeywords(ctx context.Context, movies []models.Movie) (map[int][]string, error) {
	out := make(map[int][]string, len(movies))

	for start := 0; start < len(movies); start += e.batchSize {
		end := start + e.batchSize
		if end > len(movies) {
			end = len(movies)
		}
		batch := movies[start:end]

		results := make([]keywordResult, len(batch))
		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(idx int, movieID int) {
				defer wg.Done()
				results[idx] = e.lookupKeywords(ctx, movieID)
			}(i, batch[i].ID)
		}
		wg.Wait()

		for _, r := range results {
			out[r.movieID] = r.keywords
		}

		if end < len(movies) && e.batchPause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.batchPause):
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lookupKeywords fetches one movie's keywords, degrading to empty on error.
func (e *Extractor) lookupKeywords(ctx context.Context, movieID int) keywordResult {
	keywords, err := e.keywords.GetKeywords(ctx, movieID)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		e.logger.Warn().Int("movie_id", movieID).Err(err).Msg("keyword lookup failed")
		return keywordResult{movieID: movieID}
	}
	return keywordResult{movieID: movieID, keywords: keywords}
}

// foldMovie accumulates one movie's genre and keyword contributions into the
// tag index. Occurrence counters count movies: a canonical keyword repeated
// within one movie's keyword list still counts once.
func (e *Extractor) foldMovie(index map[models.TagID]*models.Tag, movie *models.Movie, genreNames map[int]string, keywords []string, dislike bool) {
	for _, genreID := range movie.GenreIDList() {
		name, ok := genreNames[genreID]
		if !ok {
			continue
		}
		e.foldTag(index, models.GenreTagID(genreID), name, movie.ID, dislike)
	}

	seen := make(map[models.TagID]struct{}, len(keywords))
	for _, raw := range keywords {
		canonical := semantic.Normalize(raw)
		id := models.KeywordTagID(semantic.Slug(canonical))
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		e.foldTag(index, id, canonical, movie.ID, dislike)
	}
}

// foldTag upserts a single contribution into the tag index.
func (e *Extractor) foldTag(index map[models.TagID]*models.Tag, id models.TagID, name string, movieID int, dislike bool) {
	tag, ok := index[id]
	if !ok {
		tag = &models.Tag{ID: id, Name: name, Source: models.SourceAuto}
		index[id] = tag
	}
	if dislike {
		tag.DislikedOccurrences++
		tag.AddDislikedMovieID(movieID)
	} else {
		tag.Occurrences++
		tag.AddMovieID(movieID)
	}
}

// buildExtraction sorts the index and applies the confirmation threshold.
func (e *Extractor) buildExtraction(index map[models.TagID]*models.Tag) *Extraction {
	likedTags := make([]models.Tag, 0, len(index))
	for _, tag := range index {
		likedTags = append(likedTags, *tag)
	}

	sort.SliceStable(likedTags, func(i, j int) bool {
		if likedTags[i].Occurrences != likedTags[j].Occurrences {
			return likedTags[i].Occurrences > likedTags[j].Occurrences
		}
		return likedTags[i].Name < likedTags[j].Name
	})

	threshold := ConfirmationThreshold(len(likedTags))

	confirmed := make([]models.Tag, 0)
	for i := range likedTags {
		if ShouldConfirm(&likedTags[i], threshold) {
			tag := likedTags[i]
			tag.Confirmed = true
			confirmed = append(confirmed, tag)
		}
	}

	e.logger.Debug().
		Int("tags", len(likedTags)).
		Int("confirmed", len(confirmed)).
		Int("threshold", threshold).
		Msg("extraction complete")

	return &Extraction{
		LikedTags:     likedTags,
		ConfirmedTags: confirmed,
		Threshold:     threshold,
	}
}
