// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"spillerkatalog/internal/models"
)

// SearchPageSize is the fixed number of players per search result page.
const SearchPageSize = 9

// SearchResult is one page of search matches plus pagination metadata.
type SearchResult struct {
	Data          []models.Player `json:"data"`
	CurrentPage   int             `json:"currentPage"`
	NumberOfPages int             `json:"numberOfPages"`
	TotalCount    int             `json:"totalCount"`
}

// PlayerStore handles all player-related database operations. Category
// tags and image URL lists are stored as JSONB, preserving the document
// shape of the catalog records.
type PlayerStore struct {
	db *sql.DB
}

// NewPlayerStore creates a new PlayerStore with the given database connection.
func NewPlayerStore(db *sql.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

const playerColumns = `id, name, club, info_english, info_norwegian, category, images, created_at, updated_at`

// scanPlayer scans a row into a Player, decoding the JSONB columns.
func scanPlayer(scanner interface{ Scan(...any) error }) (*models.Player, error) {
	var p models.Player
	var categoryJSON, imagesJSON []byte
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Club, &p.InfoEnglish, &p.InfoNorwegian,
		&categoryJSON, &imagesJSON, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(categoryJSON, &p.Category); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return &p, nil
}

// collectPlayers drains rows into a slice of players.
func collectPlayers(rows *sql.Rows) ([]models.Player, error) {
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// List returns every player, unfiltered and unpaginated. Used for the
// initial full catalog load.
func (s *PlayerStore) List() ([]models.Player, error) {
	rows, err := s.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return collectPlayers(rows)
}

// ListByCategory returns the players whose category list contains the
// exact (main, sub) pair. No pagination.
func (s *PlayerStore) ListByCategory(main, sub string) ([]models.Player, error) {
	pair, err := json.Marshal([]models.CategoryPair{{Main: main, Sub: sub}})
	if err != nil {
		return nil, fmt.Errorf("encode category filter: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+playerColumns+`
		FROM players
		WHERE category @> $1::jsonb
		ORDER BY name ASC
	`, pair)
	if err != nil {
		return nil, fmt.Errorf("list players by category: %w", err)
	}
	return collectPlayers(rows)
}

// FindByID retrieves a player by ID. Returns nil if not found.
func (s *PlayerStore) FindByID(id uuid.UUID) (*models.Player, error) {
	row := s.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find player by id: %w", err)
	}
	return p, nil
}

// searchPredicate is the OR-combined case-insensitive substring match over
// every searchable player field, including the category tag names.
const searchPredicate = `
	name ILIKE $1 OR club ILIKE $1 OR info_english ILIKE $1 OR info_norwegian ILIKE $1
	OR EXISTS (
		SELECT 1 FROM jsonb_array_elements(category) AS c
		WHERE c->>'main' ILIKE $1 OR c->>'sub' ILIKE $1
	)`

// Search returns one page of players matching the query as an unanchored
// case-insensitive substring across name, club, both info bodies, and the
// category main/sub names. Results are sorted by (lowest category main,
// name, club, infoEnglish, infoNorwegian) ascending so repeated calls see
// a stable order. page is 1-indexed; the page size is fixed at 9.
func (s *PlayerStore) Search(query string, page int) (*SearchResult, error) {
	pattern := "%" + escapeLike(query) + "%"

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM players WHERE`+searchPredicate, pattern).Scan(&total); err != nil {
		return nil, fmt.Errorf("count search matches: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+playerColumns+`
		FROM players
		WHERE`+searchPredicate+`
		ORDER BY (SELECT min(c->>'main') FROM jsonb_array_elements(category) AS c)
		         ASC NULLS LAST,
		         name ASC, club ASC, info_english ASC, info_norwegian ASC
		LIMIT $2 OFFSET $3
	`, pattern, SearchPageSize, (page-1)*SearchPageSize)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	players, err := collectPlayers(rows)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []models.Player{}
	}

	return &SearchResult{
		Data:          players,
		CurrentPage:   page,
		NumberOfPages: (total + SearchPageSize - 1) / SearchPageSize,
		TotalCount:    total,
	}, nil
}

// escapeLike neutralizes LIKE metacharacters so the query term is matched
// as a literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Create inserts a new player and returns it. Category pairs are stored
// as given; de-duplication is the caller's responsibility.
func (s *PlayerStore) Create(p *models.Player) (*models.Player, error) {
	categoryJSON, imagesJSON, err := encodePlayerLists(p)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO players (name, club, info_english, info_norwegian, category, images)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+playerColumns,
		p.Name, p.Club, p.InfoEnglish, p.InfoNorwegian, categoryJSON, imagesJSON,
	)
	created, err := scanPlayer(row)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return created, nil
}

// Update replaces every scalar field, the category list, and the image
// list of an existing player. Returns nil if the id has no record.
func (s *PlayerStore) Update(p *models.Player) (*models.Player, error) {
	categoryJSON, imagesJSON, err := encodePlayerLists(p)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		UPDATE players SET
			name = $1, club = $2, info_english = $3, info_norwegian = $4,
			category = $5, images = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+playerColumns,
		p.Name, p.Club, p.InfoEnglish, p.InfoNorwegian, categoryJSON, imagesJSON, p.ID,
	)
	updated, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update player: %w", err)
	}
	return updated, nil
}

// Delete removes a player by ID. Returns false if the id had no record.
// Image blob cleanup is the caller's responsibility; the record is removed
// regardless of storage outcomes.
func (s *PlayerStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete player rows: %w", err)
	}
	return n > 0, nil
}

// encodePlayerLists marshals the JSONB columns, normalizing nil slices to
// empty JSON arrays.
func encodePlayerLists(p *models.Player) ([]byte, []byte, error) {
	category := p.Category
	if category == nil {
		category = []models.CategoryPair{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	categoryJSON, err := json.Marshal(category)
	if err != nil {
		return nil, nil, fmt.Errorf("encode category: %w", err)
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, nil, fmt.Errorf("encode images: %w", err)
	}
	return categoryJSON, imagesJSON, nil
}
