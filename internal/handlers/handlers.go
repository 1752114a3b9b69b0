// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the REST surface of the catalog: player
// CRUD with search and category browsing, taxonomy management, and
// credential issuance. Handlers depend on small store interfaces so tests
// can substitute in-memory fakes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"spillerkatalog/internal/models"
	"spillerkatalog/internal/pipeline"
	"spillerkatalog/internal/store"
)

// PlayerStore is the player persistence surface the handlers need.
type PlayerStore interface {
	List() ([]models.Player, error)
	ListByCategory(main, sub string) ([]models.Player, error)
	FindByID(id uuid.UUID) (*models.Player, error)
	Search(query string, page int) (*store.SearchResult, error)
	Create(p *models.Player) (*models.Player, error)
	Update(p *models.Player) (*models.Player, error)
	Delete(id uuid.UUID) (bool, error)
}

// MenuStore is the taxonomy persistence surface the handlers need.
type MenuStore interface {
	List() ([]models.Menu, error)
	ListWithSubmenu() ([]models.Menu, error)
	Create(mainMenu string) (*models.Menu, error)
	AddSub(mainMenu, sub string) (*models.Menu, error)
	RemoveSub(id uuid.UUID, sub string) (*models.Menu, error)
	Delete(id uuid.UUID) (bool, error)
}

// UserStore is the account persistence surface the handlers need.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	Create(username, password string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// ImagePipeline moves uploaded images in and out of object storage.
type ImagePipeline interface {
	IngestAll(ctx context.Context, ups []pipeline.Upload) ([]string, error)
	DiscardAll(ctx context.Context, urls []string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes the {"message": ...} payload used by every error
// and status response.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
