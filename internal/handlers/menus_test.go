// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"spillerkatalog/internal/models"
)

func menuRouter(h *Menus) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/menus/getCategory", h.List)
	r.Get("/menus/getMenuCategory", h.ListWithSubmenu)
	r.Post("/menus/addCategory", h.AddCategory)
	r.Post("/menus/addSubCategory", h.AddSubCategory)
	r.Delete("/menus/deleteCategory", h.DeleteCategory)
	r.Delete("/menus/deleteSubCategory", h.DeleteSubCategory)
	return r
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestMenusAddCategory(t *testing.T) {
	menus := &fakeMenuStore{}
	h := NewMenus(menus, testLogger())
	router := menuRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/menus/addCategory", `{"newCategory":"Premier League"}`))
	requireStatus(t, rec.Code, http.StatusCreated)
	var created models.Menu
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if created.MainMenu != "Premier League" {
		t.Fatalf("mainMenu = %q", created.MainMenu)
	}

	// Duplicate names conflict.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/menus/addCategory", `{"newCategory":"Premier League"}`))
	requireStatus(t, rec.Code, http.StatusConflict)
	if got := decodeMessage(t, rec.Body); got != "Category already exists" {
		t.Fatalf("message = %q", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/menus/addCategory", `{"newCategory":"  "}`))
	requireStatus(t, rec.Code, http.StatusBadRequest)
}

func TestMenusAddSubCategory(t *testing.T) {
	menus := &fakeMenuStore{menus: []*models.Menu{
		{ID: uuid.New(), MainMenu: "Eliteserien", SubMenu: []string{"Brann"}},
	}}
	h := NewMenus(menus, testLogger())
	router := menuRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/menus/addSubCategory",
		`{"category":"Eliteserien","newSubCategory":"Rosenborg"}`))
	requireStatus(t, rec.Code, http.StatusOK)
	var menu models.Menu
	if err := json.NewDecoder(rec.Body).Decode(&menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if !reflect.DeepEqual(menu.SubMenu, []string{"Brann", "Rosenborg"}) {
		t.Fatalf("subMenu = %v", menu.SubMenu)
	}

	// Re-adding an existing name leaves the list unchanged.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/menus/addSubCategory",
		`{"category":"Eliteserien","newSubCategory":"Brann"}`))
	requireStatus(t, rec.Code, http.StatusOK)
	if err := json.NewDecoder(rec.Body).Decode(&menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if !reflect.DeepEqual(menu.SubMenu, []string{"Brann", "Rosenborg"}) {
		t.Fatalf("subMenu = %v after duplicate add", menu.SubMenu)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/menus/addSubCategory",
		`{"category":"Serie A","newSubCategory":"Juventus"}`))
	requireStatus(t, rec.Code, http.StatusNotFound)
}

func TestMenusDeleteCategory(t *testing.T) {
	id := uuid.New()
	menus := &fakeMenuStore{menus: []*models.Menu{
		{ID: id, MainMenu: "Eliteserien", SubMenu: []string{"Brann"}},
	}}
	h := NewMenus(menus, testLogger())
	router := menuRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodDelete, "/menus/deleteCategory",
		`{"categoryId":"`+id.String()+`"}`))
	requireStatus(t, rec.Code, http.StatusOK)
	if got := decodeMessage(t, rec.Body); got != "Category deleted successfully" {
		t.Fatalf("message = %q", got)
	}
	if len(menus.menus) != 0 {
		t.Fatal("menu still present")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodDelete, "/menus/deleteCategory",
		`{"categoryId":"`+uuid.NewString()+`"}`))
	requireStatus(t, rec.Code, http.StatusNotFound)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodDelete, "/menus/deleteCategory", `{"categoryId":"oops"}`))
	requireStatus(t, rec.Code, http.StatusBadRequest)
}

func TestMenusDeleteSubCategory(t *testing.T) {
	id := uuid.New()
	menus := &fakeMenuStore{menus: []*models.Menu{
		{ID: id, MainMenu: "Eliteserien", SubMenu: []string{"Brann", "Rosenborg"}},
	}}
	h := NewMenus(menus, testLogger())
	router := menuRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodDelete, "/menus/deleteSubCategory",
		`{"categoryId":"`+id.String()+`","subCategoryName":"Brann"}`))
	requireStatus(t, rec.Code, http.StatusOK)
	var menu models.Menu
	if err := json.NewDecoder(rec.Body).Decode(&menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if !reflect.DeepEqual(menu.SubMenu, []string{"Rosenborg"}) {
		t.Fatalf("subMenu = %v", menu.SubMenu)
	}
}

func TestMenusListWithSubmenu(t *testing.T) {
	menus := &fakeMenuStore{menus: []*models.Menu{
		{ID: uuid.New(), MainMenu: "Empty", SubMenu: []string{}},
		{ID: uuid.New(), MainMenu: "Full", SubMenu: []string{"One"}},
	}}
	h := NewMenus(menus, testLogger())
	router := menuRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus/getMenuCategory", nil))
	requireStatus(t, rec.Code, http.StatusOK)
	var got []models.Menu
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode menus: %v", err)
	}
	if len(got) != 1 || got[0].MainMenu != "Full" {
		t.Fatalf("menus = %+v", got)
	}
}
