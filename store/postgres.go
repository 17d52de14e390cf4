package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresStore is a UserStore backed by a pgx connection pool. The unique
// constraints on email and username make duplicate detection atomic, so
// Create reports ErrDuplicateUser straight from the insert instead of a
// racy look-before-write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ UserStore = (*PostgresStore)(nil)

// NewPostgresStore connects a pool to the given DSN.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Create inserts the user, letting the database assign id and timestamps.
func (s *PostgresStore) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (email, username, password_hash, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query, user.Email, user.Username, user.PasswordHash, user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUser
		}
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// GetByID returns the user with the given id.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns the user with the given email.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

// GetByIdentifier resolves an email or username to a user.
func (s *PostgresStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	return s.getOne(ctx, `WHERE lower(email) = lower($1) OR username = $1`, identifier)
}

// Ping reports pool health.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) getOne(ctx context.Context, where string, arg any) (*User, error) {
	query := `SELECT id, email, username, password_hash, is_active, created_at, updated_at
	          FROM users ` + where

	user := &User{}
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: query user: %w", err)
	}
	return user, nil
}
