// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

// Package semantic maps raw free-text catalog keywords onto canonical
// representatives of hand-authored synonym groups, so that "ufo" and "alien
// invasion" fold into the same tag instead of fragmenting the profile.
package semantic

import (
	"regexp"
	"strings"
)

// synonymGroups is the fixed synonym table. Each group is an ordered list of
// interchangeable terms; the first element is the canonical representative.
// Group order is the tie-break when a keyword matches more than one group.
var synonymGroups = [][]string{
	// Aliens and space
	{"alien", "extraterrestrial", "alien invasion", "space creature", "ufo"},

	// Horror creatures
	{"monster", "creature", "beast", "mutant", "abomination"},

	// Locations
	{"mine", "mining", "coal mine", "abandoned mine", "quarry"},
	{"mountain", "mountains", "mountainside", "alpine", "peak"},
	{"hospital", "clinic", "medical facility", "sanatorium", "asylum"},
	{"forest", "woods", "woodland", "jungle", "wilderness"},

	// Places
	{"colorado", "denver", "boulder", "rocky mountains"},

	// Activities
	{"ski", "skiing", "ski lift", "snowboarding", "winter sports"},

	// States
	{"abandoned", "deserted", "derelict", "forsaken", "neglected"},
}

// Normalize maps a raw keyword to its synonym group's canonical
// representative. Matching is case-insensitive substring containment in
// either direction; the first matching group wins. Keywords outside every
// group are self-canonical and returned unchanged. Normalize is pure and
// total.
func Normalize(raw string) string {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return raw
	}

	for _, group := range synonymGroups {
		for _, term := range group {
			if strings.Contains(needle, term) || strings.Contains(term, needle) {
				return group[0]
			}
		}
	}

	return raw
}

var slugSeparators = regexp.MustCompile(`\s+`)

// Slug converts a canonical keyword into the stable ref used in keyword tag
// ids: lowercased, whitespace runs collapsed to single hyphens.
func Slug(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// GroupCount reports the number of synonym groups. Exposed for tests and
// diagnostics.
func GroupCount() int {
	return len(synonymGroups)
}
