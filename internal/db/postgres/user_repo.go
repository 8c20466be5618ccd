package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Waver/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Directory {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.get(ctx, `
		SELECT id, username, display_name, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username)
}

func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return r.get(ctx, `
		SELECT id, username, display_name, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.PasswordHash, user.DisplayName).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("username already taken: %s", user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepo) get(ctx context.Context, query string, arg interface{}) (*users.User, error) {
	var user users.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
