// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline moves player images between upload requests and object
// storage: validate, compress, upload on the way in; best-effort delete on
// the way out. It holds no state between requests.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"spillerkatalog/internal/imaging"
)

// ErrInvalidImage marks an upload rejected by validation (disallowed
// MIME type or undecodable data) as opposed to a storage failure.
// Callers map it to a client error; everything else is a dependency
// failure.
var ErrInvalidImage = errors.New("invalid image")

// ObjectStorage is the blob side-system the pipeline writes to. Implemented
// by the S3 storage client; tests substitute a spy.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	KeyFromURL(url string) (string, bool)
}

// Upload is one incoming image file from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Pipeline validates, compresses, and persists player images.
type Pipeline struct {
	storage ObjectStorage
	// now is swappable in tests so storage keys are deterministic.
	now func() time.Time
}

// New creates a Pipeline backed by the given object storage.
func New(storage ObjectStorage) *Pipeline {
	return &Pipeline{storage: storage, now: time.Now}
}

// Ingest validates the upload's MIME type against the allow-list,
// compresses the image, and uploads it under a timestamp-prefixed key.
// No existence check is performed on the key; collisions would need two
// same-named files in the same millisecond. Returns the public URL.
func (p *Pipeline) Ingest(ctx context.Context, up Upload) (string, error) {
	if p.storage == nil {
		return "", fmt.Errorf("object storage not configured")
	}
	if !imaging.Allowed(up.ContentType) {
		return "", fmt.Errorf("file type %s: %w", up.ContentType, ErrInvalidImage)
	}

	data, err := imaging.Compress(up.Data)
	if err != nil {
		return "", fmt.Errorf("compress %s: %w: %w", up.Filename, ErrInvalidImage, err)
	}

	// Base strips any path the client smuggled into the filename.
	key := fmt.Sprintf("%d-%s", p.now().UnixMilli(), filepath.Base(up.Filename))
	if err := p.storage.Upload(ctx, key, "image/jpeg", data); err != nil {
		return "", fmt.Errorf("upload %s: %w", up.Filename, err)
	}

	return p.storage.FileURL(key), nil
}

// IngestAll ingests every upload concurrently with join-all semantics: the
// first failure aborts the whole batch and is returned. Sibling images
// already uploaded by then are NOT removed; the caller must not link any
// URL from a failed batch to a record. URLs come back in input order.
func (p *Pipeline) IngestAll(ctx context.Context, ups []Upload) ([]string, error) {
	urls := make([]string, len(ups))

	g, ctx := errgroup.WithContext(ctx)
	for i, up := range ups {
		i, up := i, up
		g.Go(func() error {
			url, err := p.Ingest(ctx, up)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Discard deletes the blob behind a stored image URL. The key is the
// trailing path segment of the URL.
func (p *Pipeline) Discard(ctx context.Context, url string) error {
	if p.storage == nil {
		return fmt.Errorf("object storage not configured")
	}
	key, ok := p.storage.KeyFromURL(url)
	if !ok {
		return fmt.Errorf("no storage key in url %q", url)
	}
	if err := p.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("discard %s: %w", key, err)
	}
	return nil
}

// DiscardAll deletes every blob concurrently, best-effort: failures are
// logged and never surfaced, so losing an orphaned blob cannot block a
// record delete or update.
func (p *Pipeline) DiscardAll(ctx context.Context, urls []string) {
	var g errgroup.Group
	for _, url := range urls {
		url := url
		g.Go(func() error {
			if err := p.Discard(ctx, url); err != nil {
				slog.Warn("image discard failed", "url", url, "error", err)
			}
			return nil
		})
	}
	g.Wait()
}
