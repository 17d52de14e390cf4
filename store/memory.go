package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory UserStore. It backs development mode and
// tests; data does not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

var _ UserStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// Create persists a new user, assigning a fresh UUID and timestamps.
func (s *MemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if equalFold(existing.Email, user.Email) || existing.Username == user.Username {
			return ErrDuplicateUser
		}
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID returns the user with the given id.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetByEmail returns the user with the given email.
func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if equalFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByIdentifier resolves an email or username to a user.
func (s *MemoryStore) GetByIdentifier(_ context.Context, identifier string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if equalFold(user.Email, identifier) || user.Username == identifier {
			return cloneUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Delete removes a user. Test hook for the deleted-subject refresh path.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

func cloneUser(u *User) *User {
	c := *u
	return &c
}
