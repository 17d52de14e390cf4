// Package store owns the persisted user record and the UserStore contract.
// The auth service reads and creates users through this interface; record
// lifecycle beyond create-on-register belongs to the persistence layer.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("store: user not found")

// ErrDuplicateUser is returned when a create collides with an existing
// email or username.
var ErrDuplicateUser = errors.New("store: user already exists")

// User is the stored user record. PasswordHash never leaves this package's
// consumers; API responses use the auth.AuthUser projection instead.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore is the persistence contract the auth service depends on.
// Lookups inherit the store's own timeout and cancellation semantics
// through ctx.
type UserStore interface {
	// Create persists a new user. ID and timestamps are assigned by the
	// store. Returns ErrDuplicateUser if email or username is taken.
	Create(ctx context.Context, user *User) error

	// GetByID returns the user with the given id, or ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByIdentifier resolves an email or username to a user, or
	// ErrUserNotFound.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
