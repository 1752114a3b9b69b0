// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth issues and validates the signed bearer credentials gating
// catalog mutations. Tokens are stateless HS256 JWTs; the server keeps no
// session state between requests.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the lifetime of every issued credential. Sign-up and
// sign-in deliberately use the same TTL.
const TokenTTL = 24 * time.Hour

// Claims is the identity payload carried by a bearer token. It gates
// write access only; there is no per-action permission model.
type Claims struct {
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"userName"`
	jwt.RegisteredClaims
}

// Manager signs and validates bearer credentials with an HMAC-SHA256 secret.
type Manager struct {
	secret []byte
}

// NewManager creates a credential manager. The secret must be non-empty.
func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	return &Manager{secret: []byte(secret)}, nil
}

// Generate signs a credential for the given identity, valid for TokenTTL.
func (m *Manager) Generate(userID uuid.UUID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the identity claims.
// Rejecting non-HMAC algorithms prevents algorithm-confusion attacks.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token carries no user id")
	}
	return claims, nil
}
