// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the player catalog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spillerkatalog/internal/auth"
	"spillerkatalog/internal/config"
	"spillerkatalog/internal/database"
	"spillerkatalog/internal/handlers"
	"spillerkatalog/internal/middleware"
	"spillerkatalog/internal/pipeline"
	"spillerkatalog/internal/router"
	"spillerkatalog/internal/storage"
	"spillerkatalog/internal/store"
)

// Rate limit matching the public deployment: 100 requests per source IP
// per 15 minute window.
const (
	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to S3-compatible object storage (optional; image uploads
	// fail cleanly without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var objectStorage pipeline.ObjectStorage
	if storageClient != nil {
		objectStorage = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	playerStore := store.NewPlayerStore(db)
	menuStore := store.NewMenuStore(db)
	userStore := store.NewUserStore(db)

	tokens, err := auth.NewManager(cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	images := pipeline.New(objectStorage)

	playerHandlers := handlers.NewPlayers(playerStore, images, logger)
	menuHandlers := handlers.NewMenus(menuStore, logger)
	userHandlers := handlers.NewUsers(userStore, tokens, logger)

	limiter := middleware.NewRateLimiter(rateLimitRequests, rateLimitWindow)
	defer limiter.Stop()

	r := router.New(playerHandlers, menuHandlers, userHandlers, router.Options{
		Tokens:           tokens,
		MenuMutationAuth: cfg.MenuMutationAuth,
		RateLimiter:      limiter,
	})

	// WriteTimeout must accommodate multi-image uploads to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
