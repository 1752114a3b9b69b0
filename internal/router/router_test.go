// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"spillerkatalog/internal/auth"
	"spillerkatalog/internal/handlers"
	"spillerkatalog/internal/models"
	"spillerkatalog/internal/pipeline"
	"spillerkatalog/internal/store"
)

// stubPlayers satisfies handlers.PlayerStore with canned responses;
// the router tests only care about routing and auth gating.
type stubPlayers struct{}

func (stubPlayers) List() ([]models.Player, error) { return []models.Player{}, nil }
func (stubPlayers) ListByCategory(_, _ string) ([]models.Player, error) {
	return []models.Player{}, nil
}
func (stubPlayers) FindByID(uuid.UUID) (*models.Player, error) { return nil, nil }
func (stubPlayers) Search(string, int) (*store.SearchResult, error) {
	return &store.SearchResult{Data: []models.Player{}, CurrentPage: 1}, nil
}
func (stubPlayers) Create(p *models.Player) (*models.Player, error) { return p, nil }
func (stubPlayers) Update(p *models.Player) (*models.Player, error) { return p, nil }
func (stubPlayers) Delete(uuid.UUID) (bool, error)                  { return false, nil }

type stubMenus struct{}

func (stubMenus) List() ([]models.Menu, error)            { return []models.Menu{}, nil }
func (stubMenus) ListWithSubmenu() ([]models.Menu, error) { return []models.Menu{}, nil }
func (stubMenus) Create(main string) (*models.Menu, error) {
	return &models.Menu{ID: uuid.New(), MainMenu: main, SubMenu: []string{}}, nil
}
func (stubMenus) AddSub(_, _ string) (*models.Menu, error)          { return nil, nil }
func (stubMenus) RemoveSub(uuid.UUID, string) (*models.Menu, error) { return nil, nil }
func (stubMenus) Delete(uuid.UUID) (bool, error)                    { return false, nil }

type stubUsers struct{}

func (stubUsers) FindByUsername(string) (*models.User, error) { return nil, nil }
func (stubUsers) Create(username, _ string) (*models.User, error) {
	return &models.User{ID: uuid.New(), Username: username}, nil
}
func (stubUsers) CheckPassword(*models.User, string) bool { return false }

type stubPipeline struct{}

func (stubPipeline) IngestAll(context.Context, []pipeline.Upload) ([]string, error) {
	return []string{}, nil
}
func (stubPipeline) DiscardAll(context.Context, []string) {}

func testRouter(t *testing.T, menuAuth bool) (http.Handler, *auth.Manager) {
	t.Helper()
	manager, err := auth.NewManager("router-test-secret")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	players := handlers.NewPlayers(stubPlayers{}, stubPipeline{}, logger)
	menus := handlers.NewMenus(stubMenus{}, logger)
	users := handlers.NewUsers(stubUsers{}, manager, logger)
	return New(players, menus, users, Options{Tokens: manager, MenuMutationAuth: menuAuth}), manager
}

func bearer(t *testing.T, manager *auth.Manager) string {
	t.Helper()
	token, err := manager.Generate(uuid.New(), "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func TestPublicRoutes(t *testing.T) {
	router, _ := testRouter(t, true)

	for _, target := range []string{"/", "/health", "/players", "/menus/getCategory", "/menus/getMenuCategory"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", target, rec.Code)
		}
	}
}

// Every write endpoint rejects requests without a bearer token.
func TestMutationsRequireToken(t *testing.T) {
	router, _ := testRouter(t, true)

	requests := []struct {
		method, target string
	}{
		{http.MethodPost, "/players"},
		{http.MethodPost, "/players/updatePlayer/" + uuid.NewString()},
		{http.MethodDelete, "/players/" + uuid.NewString()},
		{http.MethodPost, "/menus/addCategory"},
		{http.MethodPost, "/menus/addSubCategory"},
		{http.MethodDelete, "/menus/deleteCategory"},
		{http.MethodDelete, "/menus/deleteSubCategory"},
		{http.MethodGet, "/users/validateToken"},
	}
	for _, req := range requests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(req.method, req.target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", req.method, req.target, rec.Code)
		}
	}
}

func TestMenuMutationAuthDisabled(t *testing.T) {
	router, _ := testRouter(t, false)

	body := strings.NewReader(`{"newCategory":"Premier League"}`)
	req := httptest.NewRequest(http.MethodPost, "/menus/addCategory", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("addCategory without token = %d, want 201", rec.Code)
	}
}

func TestAuthenticatedMenuMutation(t *testing.T) {
	router, manager := testRouter(t, true)

	body := strings.NewReader(`{"newCategory":"Premier League"}`)
	req := httptest.NewRequest(http.MethodPost, "/menus/addCategory", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, manager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("addCategory with token = %d, want 201", rec.Code)
	}
}

// The literal /players/search route must win over the {id} wildcard.
func TestSearchRouteIsNotShadowedByWildcard(t *testing.T) {
	router, _ := testRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/search?searchQuery=x&page=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /players/search = %d, want 200", rec.Code)
	}
}
