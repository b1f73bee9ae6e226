// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package models

// UserProfile is the single-client taste profile snapshot. Mutations produce
// a new snapshot with an incremented Version; in-flight recomputes that
// started from an older version are discarded on completion rather than
// merged.
type UserProfile struct {
	// Version increases monotonically with every persisted mutation.
	Version uint64 `json:"version"`

	// LikedMovies, DislikedMovies and AvoidedMovies are mutually
	// exclusive; rating a movie removes it from the other two sets.
	LikedMovies    []Movie `json:"liked_movies"`
	DislikedMovies []Movie `json:"disliked_movies"`
	AvoidedMovies  []Movie `json:"avoided_movies"`

	// WatchLaterMovies may overlap the rated sets until the movie is
	// rated, at which point it is removed from the queue.
	WatchLaterMovies []Movie `json:"watch_later_movies"`

	// LikedTags holds every extracted or manually added tag.
	LikedTags []Tag `json:"liked_tags"`

	// ConfirmedTags is the derived high-confidence view, layered with
	// override preservation.
	ConfirmedTags []Tag `json:"confirmed_tags"`

	// AvoidedTags are subtracted from recommendation filters.
	AvoidedTags []Tag `json:"avoided_tags"`

	// CurrentMood, when set, switches recommendations to mood mode.
	CurrentMood Mood `json:"current_mood,omitempty"`

	// Name and Bio are free-form display fields.
	Name string `json:"name,omitempty"`
	Bio  string `json:"bio,omitempty"`

	// LegacyTags carries the flat tag list of old snapshots. It is
	// consumed by Normalize during load-time migration and never written
	// back.
	LegacyTags []Tag `json:"tags,omitempty"`
}

// NewProfile returns an empty profile at version zero.
func NewProfile() *UserProfile {
	p := &UserProfile{}
	p.Normalize()
	return p
}

// Normalize coerces missing collections to empty slices and migrates legacy
// flat-tag snapshots into the three-set model. Persisted profiles pass
// through here at every load so downstream code never sees nil collections.
func (p *UserProfile) Normalize() {
	if p.LikedMovies == nil {
		p.LikedMovies = []Movie{}
	}
	if p.DislikedMovies == nil {
		p.DislikedMovies = []Movie{}
	}
	if p.AvoidedMovies == nil {
		p.AvoidedMovies = []Movie{}
	}
	if p.WatchLaterMovies == nil {
		p.WatchLaterMovies = []Movie{}
	}
	if p.LikedTags == nil {
		p.LikedTags = []Tag{}
	}
	if p.ConfirmedTags == nil {
		p.ConfirmedTags = []Tag{}
	}
	if p.AvoidedTags == nil {
		p.AvoidedTags = []Tag{}
	}

	p.migrateLegacyTags()
}

// migrateLegacyTags folds a legacy flat tags list into the three-set model.
// Confirmed legacy tags land in ConfirmedTags, the rest in LikedTags; tags
// already present in either set are skipped.
func (p *UserProfile) migrateLegacyTags() {
	if len(p.LegacyTags) == 0 {
		p.LegacyTags = nil
		return
	}

	for i := range p.LegacyTags {
		tag := p.LegacyTags[i]
		if FindTag(p.LikedTags, tag.ID) != nil || FindTag(p.ConfirmedTags, tag.ID) != nil {
			continue
		}
		if tag.Confirmed {
			p.ConfirmedTags = append(p.ConfirmedTags, tag)
		} else {
			p.LikedTags = append(p.LikedTags, tag)
		}
	}

	p.LegacyTags = nil
}

// AllTags returns confirmed tags followed by the liked tags not shadowed by
// a confirmed entry. This is the combined view recommendation requests use.
func (p *UserProfile) AllTags() []Tag {
	tags := make([]Tag, 0, len(p.ConfirmedTags)+len(p.LikedTags))
	tags = append(tags, p.ConfirmedTags...)
	for i := range p.LikedTags {
		if FindTag(p.ConfirmedTags, p.LikedTags[i].ID) == nil {
			tags = append(tags, p.LikedTags[i])
		}
	}
	return tags
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.LikedMovies = cloneMovies(p.LikedMovies)
	c.DislikedMovies = cloneMovies(p.DislikedMovies)
	c.AvoidedMovies = cloneMovies(p.AvoidedMovies)
	c.WatchLaterMovies = cloneMovies(p.WatchLaterMovies)
	c.LikedTags = CloneTags(p.LikedTags)
	c.ConfirmedTags = CloneTags(p.ConfirmedTags)
	c.AvoidedTags = CloneTags(p.AvoidedTags)
	c.LegacyTags = nil
	return &c
}

func cloneMovies(movies []Movie) []Movie {
	out := make([]Movie, len(movies))
	copy(out, movies)
	for i := range out {
		out[i].GenreIDs = append([]int(nil), out[i].GenreIDs...)
		out[i].Genres = append([]Genre(nil), out[i].Genres...)
	}
	return out
}

// CloneTags deep-copies a tag slice including provenance sets.
func CloneTags(tags []Tag) []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)
	for i := range out {
		out[i].MovieIDs = append([]int(nil), out[i].MovieIDs...)
		out[i].DislikedMovieIDs = append([]int(nil), out[i].DislikedMovieIDs...)
	}
	return out
}
