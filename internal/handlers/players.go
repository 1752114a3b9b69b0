// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"spillerkatalog/internal/models"
	"spillerkatalog/internal/pipeline"
)

const (
	// maxUploadBytes caps the whole multipart request body.
	maxUploadBytes = 200 << 20
	// maxUploadFiles caps the number of images per request.
	maxUploadFiles = 5
)

// Players serves the player catalog endpoints.
type Players struct {
	store  PlayerStore
	images ImagePipeline
	logger *slog.Logger
}

func NewPlayers(store PlayerStore, images ImagePipeline, logger *slog.Logger) *Players {
	return &Players{store: store, images: images, logger: logger}
}

// List returns every player in the catalog.
func (h *Players) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.store.List()
	if err != nil {
		h.logger.Error("list players", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// ListByCategory returns the players tagged with the "main,sub" pair in
// the key query parameter.
func (h *Players) ListByCategory(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	main, sub, ok := strings.Cut(key, ",")
	if !ok || main == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid category key")
		return
	}
	players, err := h.store.ListByCategory(main, sub)
	if err != nil {
		h.logger.Error("list players by category", "error", err, "main", main, "sub", sub)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": players})
}

// Get returns a single player by id.
func (h *Players) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid player id")
		return
	}
	player, err := h.store.FindByID(id)
	if err != nil {
		h.logger.Error("find player", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if player == nil {
		writeMessage(w, http.StatusNotFound, "Player not found")
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// Search runs a paginated free-text search over the catalog.
func (h *Players) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("searchQuery")
	if strings.TrimSpace(query) == "" {
		writeMessage(w, http.StatusBadRequest, "No search query provided")
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid page number")
		return
	}
	result, err := h.store.Search(query, page)
	if err != nil {
		h.logger.Error("search players", "error", err, "query", query)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Create ingests a multipart form with player fields and up to five
// images. Images are compressed and uploaded before the record is
// written; an upload failure aborts the whole request.
func (h *Players) Create(w http.ResponseWriter, r *http.Request) {
	form, uploads, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}
	categories, err := parseCategories(form("categories"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid categories payload")
		return
	}

	urls, err := h.ingestUploads(w, r, uploads)
	if err != nil {
		return
	}

	player := &models.Player{
		Name:          form("name"),
		Club:          form("club"),
		InfoEnglish:   form("infoEnglish"),
		InfoNorwegian: form("infoNorwegian"),
		Category:      categories,
		Images:        urls,
	}
	created, err := h.store.Create(player)
	if err != nil {
		h.logger.Error("create player", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// Update rewrites a player record. Previously stored images that are
// absent from the existingImages retain list are discarded from object
// storage; fresh uploads are prepended to the retained ones.
func (h *Players) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid player id")
		return
	}
	existing, err := h.store.FindByID(id)
	if err != nil {
		h.logger.Error("find player", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if existing == nil {
		writeMessage(w, http.StatusNotFound, "Player not found")
		return
	}

	form, uploads, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}
	categories, err := parseCategories(form("categories"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid categories payload")
		return
	}

	retain := r.MultipartForm.Value["existingImages"]
	keep := make(map[string]bool, len(retain))
	for _, url := range retain {
		keep[url] = true
	}
	var retained, removed []string
	for _, url := range existing.Images {
		if keep[url] {
			retained = append(retained, url)
		} else {
			removed = append(removed, url)
		}
	}
	h.images.DiscardAll(r.Context(), removed)

	urls, err := h.ingestUploads(w, r, uploads)
	if err != nil {
		return
	}

	existing.Name = form("name")
	existing.Club = form("club")
	existing.InfoEnglish = form("infoEnglish")
	existing.InfoNorwegian = form("infoNorwegian")
	existing.Category = categories
	existing.Images = append(urls, retained...)

	updated, err := h.store.Update(existing)
	if err != nil {
		h.logger.Error("update player", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if updated == nil {
		writeMessage(w, http.StatusNotFound, "Player not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a player and discards its stored images. Image
// discards are best effort and never block the record deletion.
func (h *Players) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid player id")
		return
	}
	player, err := h.store.FindByID(id)
	if err != nil {
		h.logger.Error("find player", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if player == nil {
		writeMessage(w, http.StatusNotFound, "Player not found")
		return
	}

	h.images.DiscardAll(r.Context(), player.Images)

	deleted, err := h.store.Delete(id)
	if err != nil {
		h.logger.Error("delete player", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if !deleted {
		writeMessage(w, http.StatusNotFound, "Player not found")
		return
	}
	writeMessage(w, http.StatusOK, "Player deleted")
}

// ingestUploads runs the uploads through the image pipeline. A validation
// rejection is the client's fault (400); anything else is a storage
// failure (500). The error response is already written when err != nil.
func (h *Players) ingestUploads(w http.ResponseWriter, r *http.Request, uploads []pipeline.Upload) ([]string, error) {
	urls, err := h.images.IngestAll(r.Context(), uploads)
	if err == nil {
		return urls, nil
	}
	if errors.Is(err, pipeline.ErrInvalidImage) {
		writeMessage(w, http.StatusBadRequest, "Image upload failed")
		return nil, err
	}
	h.logger.Error("ingest images", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Something went wrong")
	return nil, err
}

// parseMultipart reads the multipart body and collects the uploaded
// images. On failure it writes the error response and returns ok=false.
func (h *Players) parseMultipart(w http.ResponseWriter, r *http.Request) (form func(string) string, uploads []pipeline.Upload, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return nil, nil, false
	}
	files := r.MultipartForm.File["images"]
	if len(files) > maxUploadFiles {
		writeMessage(w, http.StatusBadRequest, "Too many images")
		return nil, nil, false
	}
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid form data")
			return nil, nil, false
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid form data")
			return nil, nil, false
		}
		uploads = append(uploads, pipeline.Upload{
			Filename:    header.Filename,
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}
	return r.FormValue, uploads, true
}

// parseCategories accepts either a JSON array of category pairs or a
// single pair object, matching what the form builder sends.
func parseCategories(raw string) ([]models.CategoryPair, error) {
	if strings.TrimSpace(raw) == "" {
		return []models.CategoryPair{}, nil
	}
	var pairs []models.CategoryPair
	if err := json.Unmarshal([]byte(raw), &pairs); err == nil {
		return pairs, nil
	}
	var single models.CategoryPair
	if err := json.Unmarshal([]byte(raw), &single); err != nil {
		return nil, err
	}
	return []models.CategoryPair{single}, nil
}
