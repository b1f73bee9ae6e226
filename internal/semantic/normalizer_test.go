// AI Film Finder - Tag-Driven Movie Personalization
// Copyright 2026 theaipro
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theaipro/ai-film-finder

package semantic

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical is identity", raw: "alien", want: "alien"},
		{name: "synonym maps to canonical", raw: "ufo", want: "alien"},
		{name: "case insensitive", raw: "UFO", want: "alien"},
		{name: "keyword contains term", raw: "ufo sighting", want: "alien"},
		{name: "term contains keyword", raw: "mutan", want: "monster"},
		{name: "surrounding whitespace", raw: "  skiing  ", want: "ski"},
		{name: "unmatched passes through", raw: "time travel", want: "time travel"},
		{name: "empty passes through", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, raw := range []string{"ufo", "creature", "denver", "time travel"} {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestNormalizeFirstGroupWins(t *testing.T) {
	// "abandoned mine" is a term of the mine group and contains a term of
	// the abandoned group; the earlier group is the canonical home.
	if got := Normalize("abandoned mine"); got != "mine" {
		t.Errorf("Normalize(%q) = %q, want %q", "abandoned mine", got, "mine")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "alien", want: "alien"},
		{raw: "Outer  Space", want: "outer-space"},
		{raw: " rocky mountains ", want: "rocky-mountains"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Slug(tt.raw); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
