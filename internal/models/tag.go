// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TagKind classifies a tag. The set is closed; weighting and recommendation
// logic switch exhaustively over it.
type TagKind int

const (
	// KindGenre is a catalog genre tag (ref is the numeric genre id).
	KindGenre TagKind = iota
	// KindTheme is a thematic tag.
	KindTheme
	// KindTone is a tonal tag.
	KindTone
	// KindKeyword is a catalog keyword tag (ref is the canonical slug).
	KindKeyword
	// KindActor is an actor tag.
	KindActor
	// KindDirector is a director tag.
	KindDirector
	// KindCustom is a user-authored tag (ref is a creation timestamp).
	KindCustom
)

// String returns the wire name of the kind.
func (k TagKind) String() string {
	switch k {
	case KindGenre:
		return "genre"
	case KindTheme:
		return "theme"
	case KindTone:
		return "tone"
	case KindKeyword:
		return "keyword"
	case KindActor:
		return "actor"
	case KindDirector:
		return "director"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseTagKind parses a wire name into a TagKind.
func ParseTagKind(s string) (TagKind, error) {
	switch strings.ToLower(s) {
	case "genre":
		return KindGenre, nil
	case "theme":
		return KindTheme, nil
	case "tone":
		return KindTone, nil
	case "keyword":
		return KindKeyword, nil
	case "actor":
		return KindActor, nil
	case "director":
		return KindDirector, nil
	case "custom":
		return KindCustom, nil
	default:
		return 0, fmt.Errorf("unknown tag kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TagKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TagKind) UnmarshalText(b []byte) error {
	kind, err := ParseTagKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// TagID is a tagged identifier constructed once at tag creation. It replaces
// string-embedded ids ("genre-28") that would otherwise be re-parsed at every
// filter construction site.
type TagID struct {
	// Kind is the tag classification.
	Kind TagKind `json:"kind"`

	// Ref is the semantic key within the kind: the decimal genre id for
	// genre tags, the canonical keyword slug for keyword tags, a creation
	// timestamp for custom tags.
	Ref string `json:"ref"`
}

// GenreTagID builds the identifier for a genre tag.
func GenreTagID(genreID int) TagID {
	return TagID{Kind: KindGenre, Ref: strconv.Itoa(genreID)}
}

// KeywordTagID builds the identifier for a keyword tag from its canonical
// slug.
func KeywordTagID(slug string) TagID {
	return TagID{Kind: KindKeyword, Ref: slug}
}

// CustomTagID builds the identifier for a user-authored tag.
func CustomTagID(unixMillis int64) TagID {
	return TagID{Kind: KindCustom, Ref: strconv.FormatInt(unixMillis, 10)}
}

// String renders the stable wire form, e.g. "genre-28" or "keyword-alien".
func (id TagID) String() string {
	return id.Kind.String() + "-" + id.Ref
}

// IsZero reports whether the id is unset.
func (id TagID) IsZero() bool {
	return id.Ref == ""
}

// GenreID recovers the numeric genre id. The second return is false for
// non-genre tags and for malformed refs; callers drop such tags from filter
// construction instead of failing.
func (id TagID) GenreID() (int, bool) {
	if id.Kind != KindGenre {
		return 0, false
	}
	n, err := strconv.Atoi(id.Ref)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseTagID parses the wire form produced by String. It accepts ids from
// persisted snapshots, including legacy ones.
func ParseTagID(s string) (TagID, error) {
	kindStr, ref, ok := strings.Cut(s, "-")
	if !ok || ref == "" {
		return TagID{}, fmt.Errorf("malformed tag id %q", s)
	}
	kind, err := ParseTagKind(kindStr)
	if err != nil {
		return TagID{}, fmt.Errorf("malformed tag id %q: %w", s, err)
	}
	return TagID{Kind: kind, Ref: ref}, nil
}

// MarshalText renders the stable wire form.
func (id TagID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the wire form.
func (id *TagID) UnmarshalText(b []byte) error {
	parsed, err := ParseTagID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// TagSource records who created a tag.
type TagSource string

const (
	// SourceAuto marks tags derived by extraction.
	SourceAuto TagSource = "auto"
	// SourceManual marks tags added explicitly by the user.
	SourceManual TagSource = "manual"
)

// ConfirmedMarker is prefixed to the display name of manually confirmed tags.
const ConfirmedMarker = "⭐"

// Tag is a weighted taste signal derived from the user's rated movies or
// added manually.
type Tag struct {
	// ID is the stable tagged identifier. Re-extraction merges into the
	// same tag rather than duplicating it.
	ID TagID `json:"id"`

	// Name is the display name. Manually confirmed tags carry the
	// ConfirmedMarker prefix.
	Name string `json:"name"`

	// Source records whether extraction or the user created the tag.
	Source TagSource `json:"source"`

	// Occurrences counts liked movies contributing this tag.
	Occurrences int `json:"occurrences"`

	// DislikedOccurrences counts disliked movies contributing this tag.
	DislikedOccurrences int `json:"disliked_occurrences,omitempty"`

	// Confirmed marks the tag as a high-confidence signal.
	Confirmed bool `json:"confirmed,omitempty"`

	// Override marks a tag whose confirmed state was pinned by the user.
	// Overridden tags are immune to automatic demotion.
	Override bool `json:"override,omitempty"`

	// MovieIDs is the deduplicated provenance set of liked movies.
	MovieIDs []int `json:"movie_ids,omitempty"`

	// DislikedMovieIDs is the deduplicated provenance set of disliked
	// movies.
	DislikedMovieIDs []int `json:"disliked_movie_ids,omitempty"`
}

// NetScore is the confirmation score: disliked signal is weighted double.
func (t *Tag) NetScore() int {
	return t.Occurrences - 2*t.DislikedOccurrences
}

// BareName returns the display name without the confirmed marker prefix.
func (t *Tag) BareName() string {
	return strings.TrimSpace(strings.TrimPrefix(t.Name, ConfirmedMarker))
}

// AddMovieID appends id to the liked provenance set if absent.
func (t *Tag) AddMovieID(id int) {
	for _, existing := range t.MovieIDs {
		if existing == id {
			return
		}
	}
	t.MovieIDs = append(t.MovieIDs, id)
}

// AddDislikedMovieID appends id to the disliked provenance set if absent.
func (t *Tag) AddDislikedMovieID(id int) {
	for _, existing := range t.DislikedMovieIDs {
		if existing == id {
			return
		}
	}
	t.DislikedMovieIDs = append(t.DislikedMovieIDs, id)
}

// FindTag returns a pointer to the tag with the given id, or nil.
func FindTag(tags []Tag, id TagID) *Tag {
	for i := range tags {
		if tags[i].ID == id {
			return &tags[i]
		}
	}
	return nil
}

// RemoveTag returns tags with the given id removed.
func RemoveTag(tags []Tag, id TagID) []Tag {
	out := tags[:0]
	for i := range tags {
		if tags[i].ID != id {
			out = append(out, tags[i])
		}
	}
	return out
}
