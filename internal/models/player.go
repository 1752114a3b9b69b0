// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a catalog entry: a person with a club affiliation,
// bilingual description, category tags, and a display-ordered image list.
// The first image URL is the cover image.
type Player struct {
	ID            uuid.UUID      `json:"_id"`
	Name          string         `json:"name"`
	Club          string         `json:"club"`
	InfoEnglish   string         `json:"infoEnglish"`
	InfoNorwegian string         `json:"infoNorwegian"`
	Category      []CategoryPair `json:"category"`
	Images        []string       `json:"images"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// CoverImage returns the first image URL, or "" if the player has none.
func (p *Player) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasCategory reports whether the player carries the exact (main, sub) pair.
func (p *Player) HasCategory(main, sub string) bool {
	for _, c := range p.Category {
		if c.Main == main && c.Sub == sub {
			return true
		}
	}
	return false
}
