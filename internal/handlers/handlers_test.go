// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"spillerkatalog/internal/models"
	"spillerkatalog/internal/pipeline"
	"spillerkatalog/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePlayerStore keeps players in a map and records create calls.
type fakePlayerStore struct {
	players map[uuid.UUID]*models.Player
	created []*models.Player
	updated []*models.Player
	deleted []uuid.UUID
	search  *store.SearchResult
}

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{players: make(map[uuid.UUID]*models.Player)}
}

func (f *fakePlayerStore) List() ([]models.Player, error) {
	out := []models.Player{}
	for _, p := range f.players {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlayerStore) ListByCategory(main, sub string) ([]models.Player, error) {
	out := []models.Player{}
	for _, p := range f.players {
		if p.HasCategory(main, sub) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlayerStore) FindByID(id uuid.UUID) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePlayerStore) Search(query string, page int) (*store.SearchResult, error) {
	return f.search, nil
}

func (f *fakePlayerStore) Create(p *models.Player) (*models.Player, error) {
	p.ID = uuid.New()
	f.players[p.ID] = p
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakePlayerStore) Update(p *models.Player) (*models.Player, error) {
	if _, ok := f.players[p.ID]; !ok {
		return nil, nil
	}
	f.players[p.ID] = p
	f.updated = append(f.updated, p)
	return p, nil
}

func (f *fakePlayerStore) Delete(id uuid.UUID) (bool, error) {
	if _, ok := f.players[id]; !ok {
		return false, nil
	}
	delete(f.players, id)
	f.deleted = append(f.deleted, id)
	return true, nil
}

// fakePipeline records ingests and discards without touching storage.
// Ingested uploads become "https://img.test/<filename>" URLs. Setting
// failWith makes every ingest fail with that error.
type fakePipeline struct {
	ingested  []pipeline.Upload
	discarded []string
	failWith  error
}

func (f *fakePipeline) IngestAll(ctx context.Context, ups []pipeline.Upload) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	urls := []string{}
	for _, up := range ups {
		f.ingested = append(f.ingested, up)
		urls = append(urls, "https://img.test/"+up.Filename)
	}
	return urls, nil
}

func (f *fakePipeline) DiscardAll(ctx context.Context, urls []string) {
	f.discarded = append(f.discarded, urls...)
}

// fakeMenuStore keeps menus in a slice.
type fakeMenuStore struct {
	menus []*models.Menu
}

func (f *fakeMenuStore) find(id uuid.UUID) *models.Menu {
	for _, m := range f.menus {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (f *fakeMenuStore) List() ([]models.Menu, error) {
	out := []models.Menu{}
	for _, m := range f.menus {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMenuStore) ListWithSubmenu() ([]models.Menu, error) {
	out := []models.Menu{}
	for _, m := range f.menus {
		if len(m.SubMenu) > 0 {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMenuStore) Create(mainMenu string) (*models.Menu, error) {
	for _, m := range f.menus {
		if m.MainMenu == mainMenu {
			return nil, store.ErrConflict
		}
	}
	m := &models.Menu{ID: uuid.New(), MainMenu: mainMenu, SubMenu: []string{}}
	f.menus = append(f.menus, m)
	return m, nil
}

func (f *fakeMenuStore) AddSub(mainMenu, sub string) (*models.Menu, error) {
	for _, m := range f.menus {
		if m.MainMenu != mainMenu {
			continue
		}
		present := false
		for _, s := range m.SubMenu {
			if s == sub {
				present = true
			}
		}
		if !present {
			m.SubMenu = append(m.SubMenu, sub)
		}
		return m, nil
	}
	return nil, nil
}

func (f *fakeMenuStore) RemoveSub(id uuid.UUID, sub string) (*models.Menu, error) {
	m := f.find(id)
	if m == nil {
		return nil, nil
	}
	kept := []string{}
	for _, s := range m.SubMenu {
		if s != sub {
			kept = append(kept, s)
		}
	}
	m.SubMenu = kept
	return m, nil
}

func (f *fakeMenuStore) Delete(id uuid.UUID) (bool, error) {
	for i, m := range f.menus {
		if m.ID == id {
			f.menus = append(f.menus[:i], f.menus[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeUserStore holds plaintext passwords; good enough for handler tests.
type fakeUserStore struct {
	users map[string]*models.User
	pass  map[string]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User), pass: make(map[string]string)}
}

func (f *fakeUserStore) FindByUsername(username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserStore) Create(username, password string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, store.ErrConflict
	}
	u := &models.User{ID: uuid.New(), Username: username}
	f.users[username] = u
	f.pass[username] = password
	return u, nil
}

func (f *fakeUserStore) CheckPassword(user *models.User, password string) bool {
	return f.pass[user.Username] == password
}

func decodeMessage(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("decode message body: %v", err)
	}
	return payload.Message
}

func requireStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}
