// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a typed Go client for the player catalog API. It
// keeps a small per-resource cache (players, categories, session) that
// is reconciled after every call, so an embedding application can read
// current state without refetching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spillerkatalog/internal/models"
)

// SessionState tracks where the client sits in the credential lifecycle.
type SessionState int

const (
	// SessionUnknown means no validation has been attempted yet.
	SessionUnknown SessionState = iota
	// SessionValidating means a validateToken call is in flight.
	SessionValidating
	// SessionAuthenticated means the held token passed validation.
	SessionAuthenticated
	// SessionUnauthenticated means there is no usable token.
	SessionUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionValidating:
		return "validating"
	case SessionAuthenticated:
		return "authenticated"
	case SessionUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// APIError is a non-2xx response decoded into its message payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ImageFile is one image to attach to a player create or update call.
type ImageFile struct {
	Name string
	Data []byte
}

// PlayerFields are the scalar and category fields of a player form.
type PlayerFields struct {
	Name          string
	Club          string
	InfoEnglish   string
	InfoNorwegian string
	Category      []models.CategoryPair
}

// SearchPage is one page of search results.
type SearchPage struct {
	Data          []models.Player `json:"data"`
	CurrentPage   int             `json:"currentPage"`
	NumberOfPages int             `json:"numberOfPages"`
	TotalCount    int             `json:"totalCount"`
}

// Client calls the catalog API and reconciles local state after each
// call. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu         sync.RWMutex
	token      string
	session    SessionState
	players    []models.Player
	categories []models.Menu
	identity   *models.User
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
		session: SessionUnknown,
	}
}

// SetToken installs a previously issued bearer token. The session state
// resets to unknown until the next Validate call.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	if token == "" {
		c.session = SessionUnauthenticated
	} else {
		c.session = SessionUnknown
	}
}

// Token returns the held bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Session returns the current session state.
func (c *Client) Session() SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Players returns the locally cached player list.
func (c *Client) Players() []models.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Player, len(c.players))
	copy(out, c.players)
	return out
}

// Categories returns the locally cached category list.
func (c *Client) Categories() []models.Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Menu, len(c.categories))
	copy(out, c.categories)
	return out
}

// FetchPlayers loads the full catalog and replaces the local cache.
func (c *Client) FetchPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := c.doJSON(ctx, http.MethodGet, "/players", nil, &players); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.players = players
	c.mu.Unlock()
	return players, nil
}

// PlayersByCategory fetches the players tagged with the (main, sub)
// pair. Does not touch the full-catalog cache.
func (c *Client) PlayersByCategory(ctx context.Context, main, sub string) ([]models.Player, error) {
	target := "/players/listPlayers?key=" + url.QueryEscape(main+","+sub)
	var payload struct {
		Data []models.Player `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Player fetches a single record by id.
func (c *Client) Player(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var player models.Player
	if err := c.doJSON(ctx, http.MethodGet, "/players/"+id.String(), nil, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// SearchPlayers runs a paginated search. page is 1-indexed.
func (c *Client) SearchPlayers(ctx context.Context, query string, page int) (*SearchPage, error) {
	target := "/players/search?searchQuery=" + url.QueryEscape(query) + "&page=" + strconv.Itoa(page)
	var result SearchPage
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePlayer submits a new player with up to five images and appends
// the created record to the local cache.
func (c *Client) CreatePlayer(ctx context.Context, fields PlayerFields, images []ImageFile) (*models.Player, error) {
	body, contentType, err := playerForm(fields, nil, images)
	if err != nil {
		return nil, err
	}
	var created models.Player
	if err := c.doMultipart(ctx, http.MethodPost, "/players", body, contentType, &created); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.players = append(c.players, created)
	c.mu.Unlock()
	return &created, nil
}

// UpdatePlayer rewrites a player. keepImages lists the previously
// stored URLs to retain; images are fresh uploads. The server replaces
// the category list wholesale, so the cached record's tags are merged
// with the selected ones before sending. The cached copy is replaced on
// success.
func (c *Client) UpdatePlayer(ctx context.Context, id uuid.UUID, fields PlayerFields, keepImages []string, images []ImageFile) (*models.Player, error) {
	c.mu.RLock()
	for i := range c.players {
		if c.players[i].ID == id {
			fields.Category = models.MergeCategoryPairs(c.players[i].Category, fields.Category)
			break
		}
	}
	c.mu.RUnlock()

	body, contentType, err := playerForm(fields, keepImages, images)
	if err != nil {
		return nil, err
	}
	var updated models.Player
	if err := c.doMultipart(ctx, http.MethodPost, "/players/updatePlayer/"+id.String(), body, contentType, &updated); err != nil {
		return nil, err
	}
	c.mu.Lock()
	for i := range c.players {
		if c.players[i].ID == updated.ID {
			c.players[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return &updated, nil
}

// DeletePlayer removes a player and drops it from the local cache.
func (c *Client) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/players/"+id.String(), nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.players {
		if c.players[i].ID == id {
			c.players = append(c.players[:i], c.players[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// FetchCategories loads every category and replaces the local cache.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	if err := c.doJSON(ctx, http.MethodGet, "/menus/getCategory", nil, &menus); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.categories = menus
	c.mu.Unlock()
	return menus, nil
}

// FetchMenuCategories loads the categories with a non-empty submenu.
func (c *Client) FetchMenuCategories(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	if err := c.doJSON(ctx, http.MethodGet, "/menus/getMenuCategory", nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// AddCategory creates a main category and appends it to the cache.
func (c *Client) AddCategory(ctx context.Context, name string) (*models.Menu, error) {
	var menu models.Menu
	err := c.doJSON(ctx, http.MethodPost, "/menus/addCategory",
		map[string]string{"newCategory": name}, &menu)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.categories = append(c.categories, menu)
	c.mu.Unlock()
	return &menu, nil
}

// AddSubCategory appends a subcategory and reconciles the cached entry.
func (c *Client) AddSubCategory(ctx context.Context, category, sub string) (*models.Menu, error) {
	var menu models.Menu
	err := c.doJSON(ctx, http.MethodPost, "/menus/addSubCategory",
		map[string]string{"category": category, "newSubCategory": sub}, &menu)
	if err != nil {
		return nil, err
	}
	c.replaceCategory(menu)
	return &menu, nil
}

// DeleteCategory removes a main category and drops it from the cache.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := c.doJSON(ctx, http.MethodDelete, "/menus/deleteCategory",
		map[string]string{"categoryId": id.String()}, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.categories {
		if c.categories[i].ID == id {
			c.categories = append(c.categories[:i], c.categories[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// DeleteSubCategory removes one subcategory and reconciles the cache.
func (c *Client) DeleteSubCategory(ctx context.Context, id uuid.UUID, sub string) (*models.Menu, error) {
	var menu models.Menu
	err := c.doJSON(ctx, http.MethodDelete, "/menus/deleteSubCategory",
		map[string]string{"categoryId": id.String(), "subCategoryName": sub}, &menu)
	if err != nil {
		return nil, err
	}
	c.replaceCategory(menu)
	return &menu, nil
}

// authPayload is the signup/signin response shape.
type authPayload struct {
	Result models.User `json:"result"`
	Token  string      `json:"token"`
}

// SignUp registers an account and installs the issued token.
func (c *Client) SignUp(ctx context.Context, username, password string) (*models.User, error) {
	return c.authenticate(ctx, "/users/signup", username, password)
}

// SignIn exchanges credentials for a token and installs it.
func (c *Client) SignIn(ctx context.Context, username, password string) (*models.User, error) {
	return c.authenticate(ctx, "/users/signin", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*models.User, error) {
	var payload authPayload
	err := c.doJSON(ctx, http.MethodPost, path,
		map[string]string{"userName": username, "password": password}, &payload)
	if err != nil {
		c.mu.Lock()
		c.session = SessionUnauthenticated
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Lock()
	c.token = payload.Token
	c.session = SessionAuthenticated
	c.identity = &payload.Result
	c.mu.Unlock()
	return &payload.Result, nil
}

// SignOut tells the server goodbye and drops the token regardless of
// the response; locally the session always ends.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/users/signout", nil, nil)
	c.mu.Lock()
	c.token = ""
	c.session = SessionUnauthenticated
	c.identity = nil
	c.mu.Unlock()
	return err
}

// Validate checks the held token against the server. Any failure
// degrades the session to unauthenticated; there is no silent refresh.
func (c *Client) Validate(ctx context.Context) (SessionState, error) {
	c.mu.Lock()
	if c.token == "" {
		c.session = SessionUnauthenticated
		c.mu.Unlock()
		return SessionUnauthenticated, nil
	}
	c.session = SessionValidating
	c.mu.Unlock()

	var claims struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"userName"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/users/validateToken", nil, &claims)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.session = SessionUnauthenticated
		c.identity = nil
		return c.session, err
	}
	c.session = SessionAuthenticated
	c.identity = &models.User{ID: claims.ID, Username: claims.Username}
	return c.session, nil
}

// Identity returns the authenticated user, nil when signed out.
func (c *Client) Identity() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return nil
	}
	copied := *c.identity
	return &copied
}

func (c *Client) replaceCategory(menu models.Menu) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.categories {
		if c.categories[i].ID == menu.ID {
			c.categories[i] = menu
			return
		}
	}
	c.categories = append(c.categories, menu)
}

// doJSON issues a request with an optional JSON body and decodes the
// response into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// doMultipart issues a multipart request (player create/update).
func (c *Client) doMultipart(ctx context.Context, method, path string, body *bytes.Buffer, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// playerForm encodes the multipart body shared by create and update.
func playerForm(fields PlayerFields, keepImages []string, images []ImageFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	write := func(name, value string) error {
		return mw.WriteField(name, value)
	}
	if err := write("name", fields.Name); err != nil {
		return nil, "", err
	}
	if err := write("club", fields.Club); err != nil {
		return nil, "", err
	}
	if err := write("infoEnglish", fields.InfoEnglish); err != nil {
		return nil, "", err
	}
	if err := write("infoNorwegian", fields.InfoNorwegian); err != nil {
		return nil, "", err
	}

	category := fields.Category
	if category == nil {
		category = []models.CategoryPair{}
	}
	encoded, err := json.Marshal(category)
	if err != nil {
		return nil, "", fmt.Errorf("encode categories: %w", err)
	}
	if err := write("categories", string(encoded)); err != nil {
		return nil, "", err
	}

	for _, url := range keepImages {
		if err := write("existingImages", url); err != nil {
			return nil, "", err
		}
	}
	for _, img := range images {
		fw, err := mw.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}
