// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"spillerkatalog/internal/store"
)

// Menus serves the category taxonomy endpoints.
type Menus struct {
	store  MenuStore
	logger *slog.Logger
}

func NewMenus(store MenuStore, logger *slog.Logger) *Menus {
	return &Menus{store: store, logger: logger}
}

// List returns every category with its subcategories.
func (h *Menus) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.store.List()
	if err != nil {
		h.logger.Error("list menus", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// ListWithSubmenu returns only categories that have at least one
// subcategory, for building navigation menus.
func (h *Menus) ListWithSubmenu(w http.ResponseWriter, r *http.Request) {
	menus, err := h.store.ListWithSubmenu()
	if err != nil {
		h.logger.Error("list menus with submenu", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// AddCategory creates a new top-level category.
func (h *Menus) AddCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NewCategory string `json:"newCategory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.NewCategory) == "" {
		writeMessage(w, http.StatusBadRequest, "No category provided")
		return
	}
	menu, err := h.store.Create(body.NewCategory)
	if errors.Is(err, store.ErrConflict) {
		writeMessage(w, http.StatusConflict, "Category already exists")
		return
	}
	if err != nil {
		h.logger.Error("create menu", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusCreated, menu)
}

// AddSubCategory appends a subcategory to an existing category. Adding
// a name that is already present leaves the list unchanged.
func (h *Menus) AddSubCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category       string `json:"category"`
		NewSubCategory string `json:"newSubCategory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		strings.TrimSpace(body.Category) == "" || strings.TrimSpace(body.NewSubCategory) == "" {
		writeMessage(w, http.StatusBadRequest, "No category provided")
		return
	}
	menu, err := h.store.AddSub(body.Category, body.NewSubCategory)
	if err != nil {
		h.logger.Error("add subcategory", "error", err, "category", body.Category)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if menu == nil {
		writeMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// DeleteCategory removes a category and all its subcategories.
func (h *Menus) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CategoryID string `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "No category provided")
		return
	}
	id, err := uuid.Parse(body.CategoryID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	deleted, err := h.store.Delete(id)
	if err != nil {
		h.logger.Error("delete menu", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if !deleted {
		writeMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	writeMessage(w, http.StatusOK, "Category deleted successfully")
}

// DeleteSubCategory removes a single subcategory from a category.
func (h *Menus) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CategoryID      string `json:"categoryId"`
		SubCategoryName string `json:"subCategoryName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.SubCategoryName) == "" {
		writeMessage(w, http.StatusBadRequest, "No category provided")
		return
	}
	id, err := uuid.Parse(body.CategoryID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	menu, err := h.store.RemoveSub(id, body.SubCategoryName)
	if err != nil {
		h.logger.Error("remove subcategory", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if menu == nil {
		writeMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}
