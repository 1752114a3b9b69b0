// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// CategoryPair tags a player with a main category and one of its
// sub-categories. Equality is structural: two pairs are the same tag
// when both strings match.
type CategoryPair struct {
	Main string `json:"main"`
	Sub  string `json:"sub"`
}

// Equal reports whether two pairs carry the same (main, sub) tuple.
func (c CategoryPair) Equal(other CategoryPair) bool {
	return c.Main == other.Main && c.Sub == other.Sub
}

// MergeCategoryPairs combines a player's existing category tags with newly
// selected ones, dropping literal duplicates while preserving first-seen
// order. Existing pairs come first.
func MergeCategoryPairs(existing, selected []CategoryPair) []CategoryPair {
	merged := make([]CategoryPair, 0, len(existing)+len(selected))
	seen := make(map[CategoryPair]struct{}, len(existing)+len(selected))

	for _, list := range [][]CategoryPair{existing, selected} {
		for _, pair := range list {
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			merged = append(merged, pair)
		}
	}
	return merged
}
