package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedHashCost matches the cost the user store uses for real sign-ups.
const seedHashCost = 12

// Seed populates the database with initial development data: a default
// admin user and a starter taxonomy. It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), seedHashCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
	`, "admin", string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter taxonomy so the navigation menu is not empty in dev.
	_, err = db.Exec(`
		INSERT INTO menus (main_menu, sub_menu)
		VALUES
			('Premier League', '["Arsenal", "Chelsea"]'::jsonb),
			('Eliteserien', '["Brann", "Rosenborg"]'::jsonb)
		ON CONFLICT (main_menu) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed insert menus: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)

	return nil
}
