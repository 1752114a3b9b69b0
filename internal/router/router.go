// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the HTTP routes and middleware chains for the
// player catalog. Reads are public; mutations sit behind the bearer
// token middleware.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"spillerkatalog/internal/auth"
	"spillerkatalog/internal/handlers"
	"spillerkatalog/internal/middleware"
)

// Options carries the pieces the router needs beyond the handlers.
type Options struct {
	Tokens *auth.Manager
	// MenuMutationAuth gates taxonomy mutations behind the bearer token
	// middleware. On by default; switch off only for local tooling.
	MenuMutationAuth bool
	// RateLimiter is optional; nil disables rate limiting (tests).
	RateLimiter *middleware.RateLimiter
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(players *handlers.Players, menus *handlers.Menus, users *handlers.Users, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "PUT", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}

	requireAuth := middleware.RequireAuth(opts.Tokens)

	r.Get("/", greetingHandler)
	r.Get("/health", healthHandler)

	r.Route("/players", func(r chi.Router) {
		// Public catalog reads. The literal routes must register before
		// the {id} wildcard.
		r.Get("/", players.List)
		r.Get("/listPlayers", players.ListByCategory)
		r.Get("/search", players.Search)
		r.Get("/{id}", players.Get)

		// Mutations require a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", players.Create)
			r.Post("/updatePlayer/{id}", players.Update)
			r.Delete("/{id}", players.Delete)
		})
	})

	r.Route("/menus", func(r chi.Router) {
		r.Get("/getCategory", menus.List)
		r.Get("/getMenuCategory", menus.ListWithSubmenu)

		r.Group(func(r chi.Router) {
			if opts.MenuMutationAuth {
				r.Use(requireAuth)
			}
			r.Post("/addCategory", menus.AddCategory)
			r.Post("/addSubCategory", menus.AddSubCategory)
			r.Delete("/deleteCategory", menus.DeleteCategory)
			r.Delete("/deleteSubCategory", menus.DeleteSubCategory)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", users.Signup)
		r.Post("/signin", users.Signin)
		r.Post("/signout", users.Signout)
		r.With(requireAuth).Get("/validateToken", users.ValidateToken)
	})

	return r
}

func greetingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Welcome to the player catalog API"))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
