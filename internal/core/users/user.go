package users

import (
	"context"
	"errors"
	"time"
)

// User is the account entity. Credential storage and signup flows live
// outside this service; the core only resolves identities to stable ids.
type User struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Username     string    `json:"username" db:"username"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ID           int64     `json:"id" db:"id"`
}

// Directory is the narrow contract consumed from the account system:
// given a caller identity, yield a stable user id.
type Directory interface {
	// GetByUsername resolves a username to a user
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id int64) (*User, error)

	// Create inserts a new user
	// Used by seeding and tests; the account system owns signup proper
	Create(ctx context.Context, user *User) error
}

// ErrUserNotFound is returned when no user matches the given identity
var ErrUserNotFound = errors.New("user not found")
