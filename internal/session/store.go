// Package session owns the persisted authentication state for the dashboard:
// the cookie set, the anti-forgery token, and freshness timestamps. The state
// survives process restarts via a JSON file next to the cache database.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Cookie is the persisted subset of an HTTP cookie. Replaying name/value
// pairs is all the dashboard needs; the remember cookie carries the long-lived
// session.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// State is a snapshot of the authentication state.
type State struct {
	Cookies        []Cookie  `json:"cookies"`
	Token          string    `json:"token"`
	TokenFetchedAt time.Time `json:"token_fetched_at"`
	ValidatedAt    time.Time `json:"validated_at"`
}

// Empty reports whether the state carries no cookies at all. Empty state is
// valid input to login.
func (s State) Empty() bool {
	return len(s.Cookies) == 0
}

// Store persists and restores session state. It is the only owner of the
// mutable state; all access goes through its methods under a single lock.
type Store struct {
	path   string
	logger *logrus.Logger

	mu    sync.Mutex
	state State
}

// NewStore creates a session store backed by the given file path.
func NewStore(path string, logger *logrus.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load restores previously persisted state. A missing file yields empty
// state; a corrupt file is logged, discarded, and also yields empty state.
// Load never fails the caller.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("path", s.path).Warn("Failed to read session state, starting empty")
		}
		s.state = State{}
		return
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("Discarding corrupt session state")
		s.state = State{}
		return
	}

	s.state = state
	s.logger.WithFields(logrus.Fields{
		"path":    s.path,
		"cookies": len(state.Cookies),
	}).Info("Loaded session state")
}

// Persist atomically writes the current state so a crash mid-write cannot
// corrupt the previous valid file.
func (s *Store) Persist() error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp session file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	state.Cookies = append([]Cookie(nil), s.state.Cookies...)
	return state
}

// SetCookies replaces the cookie set.
func (s *Store) SetCookies(cookies []Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Cookies = append([]Cookie(nil), cookies...)
}

// SetToken records a freshly extracted anti-forgery token.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.TokenFetchedAt = time.Now()
}

// Token returns the cached anti-forgery token and when it was fetched.
func (s *Store) Token() (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token, s.state.TokenFetchedAt
}

// MarkValidated records a successful login-check probe.
func (s *Store) MarkValidated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ValidatedAt = time.Now()
}

// Clear invalidates the session, forcing a fresh login.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
}
