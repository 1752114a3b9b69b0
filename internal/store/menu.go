// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"spillerkatalog/internal/models"
)

// ErrConflict is returned when a create would violate a uniqueness
// invariant (duplicate main category name, duplicate username).
var ErrConflict = errors.New("already exists")

// MenuStore manages the two-level category taxonomy.
type MenuStore struct {
	db *sql.DB
}

// NewMenuStore returns a new MenuStore.
func NewMenuStore(db *sql.DB) *MenuStore {
	return &MenuStore{db: db}
}

const menuColumns = `id, main_menu, sub_menu, created_at, updated_at`

// scanMenu scans a row into a Menu, decoding the sub-category JSONB array.
func scanMenu(scanner interface{ Scan(...any) error }) (*models.Menu, error) {
	var m models.Menu
	var subJSON []byte
	err := scanner.Scan(&m.ID, &m.MainMenu, &subJSON, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subJSON, &m.SubMenu); err != nil {
		return nil, fmt.Errorf("decode sub_menu: %w", err)
	}
	return &m, nil
}

// collectMenus drains rows into a slice of menus.
func collectMenus(rows *sql.Rows) ([]models.Menu, error) {
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		menus = append(menus, *m)
	}
	return menus, rows.Err()
}

// List returns every category, including those with an empty submenu.
func (s *MenuStore) List() ([]models.Menu, error) {
	rows, err := s.db.Query(`SELECT ` + menuColumns + ` FROM menus ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return collectMenus(rows)
}

// ListWithSubmenu returns only categories with a non-empty submenu, so
// navigation menus never show dead ends.
func (s *MenuStore) ListWithSubmenu() ([]models.Menu, error) {
	rows, err := s.db.Query(`
		SELECT ` + menuColumns + `
		FROM menus
		WHERE jsonb_array_length(sub_menu) > 0
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list menus with submenu: %w", err)
	}
	return collectMenus(rows)
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *MenuStore) FindByID(id uuid.UUID) (*models.Menu, error) {
	row := s.db.QueryRow(`SELECT `+menuColumns+` FROM menus WHERE id = $1`, id)
	m, err := scanMenu(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find menu by id: %w", err)
	}
	return m, nil
}

// Create inserts a new main category with an empty submenu. Returns
// ErrConflict if a category with this exact name already exists.
func (s *MenuStore) Create(mainMenu string) (*models.Menu, error) {
	// Pre-check for the common case; the unique constraint still guards
	// against races.
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM menus WHERE main_menu = $1)`, mainMenu).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check menu exists: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("category %q: %w", mainMenu, ErrConflict)
	}

	row := s.db.QueryRow(`
		INSERT INTO menus (main_menu) VALUES ($1)
		RETURNING `+menuColumns, mainMenu)
	m, err := scanMenu(row)
	if err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}
	return m, nil
}

// AddSub inserts a sub-category name into the named main category with
// set semantics: adding an already-present name is a no-op, not an error.
// Returns nil if no category carries the given name.
func (s *MenuStore) AddSub(mainMenu, sub string) (*models.Menu, error) {
	row := s.db.QueryRow(`
		UPDATE menus
		SET sub_menu = CASE
			WHEN sub_menu @> to_jsonb($2::text) THEN sub_menu
			ELSE sub_menu || to_jsonb($2::text)
		END,
		updated_at = NOW()
		WHERE main_menu = $1
		RETURNING `+menuColumns, mainMenu, sub)
	m, err := scanMenu(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("add sub-category: %w", err)
	}
	return m, nil
}

// RemoveSub deletes a sub-category by value match. Removing an absent
// value is a no-op. Returns nil if the category id has no record.
func (s *MenuStore) RemoveSub(id uuid.UUID, sub string) (*models.Menu, error) {
	row := s.db.QueryRow(`
		UPDATE menus
		SET sub_menu = (
			SELECT COALESCE(jsonb_agg(e), '[]'::jsonb)
			FROM jsonb_array_elements(sub_menu) AS e
			WHERE e <> to_jsonb($2::text)
		),
		updated_at = NOW()
		WHERE id = $1
		RETURNING `+menuColumns, id, sub)
	m, err := scanMenu(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remove sub-category: %w", err)
	}
	return m, nil
}

// Delete removes a main category by ID. Players referencing its
// sub-categories keep their tags; there is no cascade.
func (s *MenuStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete menu: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete menu rows: %w", err)
	}
	return n > 0, nil
}
