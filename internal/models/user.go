// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an admin account. Any authenticated user may mutate the
// catalog; there is no finer-grained permission model.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"userName"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
