package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gastoncarriquiry/menu-maker/auth"
)

// Session is the client-held authentication state: the current token pair
// plus the cached user. It is created on login or register, replaced in
// place on refresh, and destroyed on logout or a failed refresh.
type Session struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         *auth.AuthUser `json:"user,omitempty"`
}

// SessionStore persists the session across process restarts.
type SessionStore interface {
	// Load returns the stored session, or nil when none exists.
	Load() (*Session, error)

	// Save persists the session.
	Save(*Session) error

	// Clear removes the stored session. Clearing an empty store is not
	// an error.
	Clear() error
}

// FileStore keeps the session as a JSON file, readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ SessionStore = (*FileStore)(nil)

// NewFileStore creates a file-backed session store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the session file. A missing file means no session.
func (s *FileStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("client: load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("client: decode session: %w", err)
	}
	return &session, nil
}

// Save writes the session file with owner-only permissions.
func (s *FileStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("client: encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("client: create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("client: save session: %w", err)
	}
	return nil
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("client: clear session: %w", err)
	}
	return nil
}

// MemorySessionStore holds the session in memory only. Used in tests and
// by callers that do not want durable sessions.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	copy := *s.session
	return &copy, nil
}

func (s *MemorySessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *session
	s.session = &copy
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
