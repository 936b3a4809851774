// Package source defines the domain models and interfaces for media discovery and retrieval.
package source

import (
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// normalizedName returns a lowercased, trimmed string for consistent comparison.
func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Closest returns the track whose display name is nearest to the given query
// by Levenshtein distance. Used for non-interactive selection.
func Closest(tracks []*Track, query string) (*Track, bool) {
	if len(tracks) == 0 {
		return nil, false
	}

	query = normalizedName(query)
	closest := lo.MinBy(tracks, func(a, b *Track) bool {
		return levenshtein.Distance(query, normalizedName(a.String())) <
			levenshtein.Distance(query, normalizedName(b.String()))
	})

	return closest, true
}
