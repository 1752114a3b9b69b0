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

	"spillerkatalog/internal/auth"
	"spillerkatalog/internal/middleware"
	"spillerkatalog/internal/store"
)

// Users serves the account and session endpoints.
type Users struct {
	store  UserStore
	tokens *auth.Manager
	logger *slog.Logger
}

func NewUsers(store UserStore, tokens *auth.Manager, logger *slog.Logger) *Users {
	return &Users{store: store, tokens: tokens, logger: logger}
}

type credentials struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

// Signup registers a new admin account and returns a signed token.
func (h *Users) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		strings.TrimSpace(body.Username) == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	user, err := h.store.Create(body.Username, body.Password)
	if errors.Is(err, store.ErrConflict) {
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	token, err := h.tokens.Generate(user.ID, user.Username)
	if err != nil {
		h.logger.Error("sign token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": user, "token": token})
}

// Signin verifies credentials and returns a signed token. The failure
// message is the same for unknown users and wrong passwords so the
// response does not leak which accounts exist.
func (h *Users) Signin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	user, err := h.store.FindByUsername(body.Username)
	if err != nil {
		h.logger.Error("find user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if user == nil || !h.store.CheckPassword(user, body.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token, err := h.tokens.Generate(user.ID, user.Username)
	if err != nil {
		h.logger.Error("sign token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": user, "token": token})
}

// Signout acknowledges the client dropping its token. Tokens are
// stateless so there is nothing to revoke server side.
func (h *Users) Signout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logout successful")
}

// ValidateToken echoes the identity carried by a valid bearer token.
// The route runs behind the auth middleware, so reaching the handler
// means the token already checked out.
func (h *Users) ValidateToken(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       claims.UserID,
		"userName": claims.Username,
	})
}
