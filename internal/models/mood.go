// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package models

import (
	"fmt"
	"strings"
)

// Mood is the user's self-reported mood. Mood-based recommendation bypasses
// the tag cascade and queries a fixed genre set per mood.
type Mood string

const (
	// MoodHappy maps to light, upbeat genres.
	MoodHappy Mood = "happy"
	// MoodSad maps to dramas and romance.
	MoodSad Mood = "sad"
	// MoodExcited maps to action-oriented genres.
	MoodExcited Mood = "excited"
	// MoodRelaxed maps to easygoing genres.
	MoodRelaxed Mood = "relaxed"
	// MoodThoughtful maps to reflective genres.
	MoodThoughtful Mood = "thoughtful"
	// MoodTense maps to suspenseful genres.
	MoodTense Mood = "tense"
)

// Catalog genre ids referenced by the mood table.
const (
	genreAction      = 28
	genreAdventure   = 12
	genreAnimation   = 16
	genreComedy      = 35
	genreCrime       = 80
	genreDocumentary = 99
	genreDrama       = 18
	genreFamily      = 10751
	genreHistory     = 36
	genreHorror      = 27
	genreMusic       = 10402
	genreMystery     = 9648
	genreRomance     = 10749
	genreSciFi       = 878
	genreThriller    = 53
)

// moodGenres is the fixed, ordered genre list per mood.
var moodGenres = map[Mood][]int{
	MoodHappy:      {genreComedy, genreFamily, genreAnimation},
	MoodSad:        {genreDrama, genreRomance},
	MoodExcited:    {genreAction, genreAdventure, genreSciFi},
	MoodRelaxed:    {genreComedy, genreRomance, genreMusic},
	MoodThoughtful: {genreDrama, genreDocumentary, genreHistory, genreMystery},
	MoodTense:      {genreThriller, genreHorror, genreCrime, genreMystery},
}

// ParseMood parses a wire name into a Mood.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(s))
	if _, ok := moodGenres[m]; !ok {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return m, nil
}

// Valid reports whether the mood is a member of the closed set.
func (m Mood) Valid() bool {
	_, ok := moodGenres[m]
	return ok
}

// GenreIDs returns the fixed ordered genre list for the mood. The slice is a
// copy; callers may mutate it.
func (m Mood) GenreIDs() []int {
	src := moodGenres[m]
	ids := make([]int, len(src))
	copy(ids, src)
	return ids
}

// Moods lists all moods in a stable order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodSad, MoodExcited, MoodRelaxed, MoodThoughtful, MoodTense}
}
