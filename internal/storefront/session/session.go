package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted auth state: an opaque token plus the role and
// email reported by the login endpoint. No expiry is tracked client-side; the
// server rejects stale tokens with 401 and the REST client clears the store.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Store persists the session as a JSON file so it survives process restarts.
// A missing or unreadable file reads as "no session".
type Store struct {
	mu   sync.RWMutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Current returns the persisted session, or the zero value when absent.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}
	}
	return sess
}

func (s *Store) Token() string {
	return s.Current().Token
}

func (s *Store) Role() string {
	return s.Current().Role
}

func (s *Store) Email() string {
	return s.Current().Email
}

// Set persists the session atomically (write to a temp file, then rename).
func (s *Store) Set(token, role, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(Session{Token: token, Role: role, Email: email})
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the persisted session. Clearing an absent session is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsAuthorized reports whether a session is present and, when requiredRole is
// non-empty, whether the stored role matches it exactly.
func (s *Store) IsAuthorized(requiredRole string) bool {
	sess := s.Current()
	if sess.Token == "" {
		return false
	}
	if requiredRole != "" && sess.Role != requiredRole {
		return false
	}
	return true
}
