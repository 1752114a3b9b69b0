// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Menu is one entry of the two-level browsing taxonomy: a main category
// name (unique across the catalog) and its sub-category names. SubMenu
// has set semantics but keeps insertion order for display.
type Menu struct {
	ID        uuid.UUID `json:"_id"`
	MainMenu  string    `json:"mainMenu"`
	SubMenu   []string  `json:"subMenu"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasSub reports whether the sub-category name is already present.
func (m *Menu) HasSub(name string) bool {
	for _, s := range m.SubMenu {
		if s == name {
			return true
		}
	}
	return false
}
