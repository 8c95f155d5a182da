package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// CreateUser creates a new principal. Email may be empty (admins carry none).
func CreateUser(ctx context.Context, db *sql.DB, username, email, passwordHash, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role) VALUES (?, NULLIF(?, ''), ?, ?)`,
		username, email, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var email sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Email = email.String
	return u, nil
}

// GetUserByUsername returns the principal with the given username and role,
// or nil if it does not exist. Role scoping keeps the admin and user login
// endpoints from authenticating each other's principals.
func GetUserByUsername(ctx context.Context, db *sql.DB, username, role string) (*model.User, error) {
	u := &model.User{}
	var email sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE username = ? AND role = ?`, username, role,
	).Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	u.Email = email.String
	return u, nil
}

// UserExists reports whether any principal already uses the username or email.
func UserExists(ctx context.Context, db *sql.DB, username, email string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ? OR email = ?)`,
		username, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return exists, nil
}

// AdminExists reports whether any admin principal exists.
func AdminExists(ctx context.Context, db *sql.DB) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = ?)`, model.RoleAdmin,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking admin existence: %w", err)
	}
	return exists, nil
}
