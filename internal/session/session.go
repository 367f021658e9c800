// Package session persists the bearer token and cached user profile between
// runs, the way the web client keeps them in browser storage. It is read at
// startup to decide whether the session begins authenticated.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the cached profile stored alongside the token.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

type sessionData struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

// Session is a file-backed credential store. A missing file is an empty,
// unauthenticated session, not an error.
type Session struct {
	path string

	mu   sync.Mutex
	data sessionData
}

func Load(path string) (*Session, error) {
	s := &Session{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return s, nil
}

// Token implements apiclient.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AccessToken
}

func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.User
}

// UserID returns the cached profile's id, zero when no profile is cached.
func (s *Session) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.User == nil {
		return 0
	}
	return s.data.User.ID
}

// Authenticated reports whether the session starts out signed in: a token is
// present and, when it parses as a JWT, has not expired. Tokens that do not
// parse still count as authenticated; the backend is the judge and the client
// merely observes the resulting 401.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	token := s.data.AccessToken
	s.mu.Unlock()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

// SetCredentials stores a new token and profile and persists them.
func (s *Session) SetCredentials(token string, user *User) error {
	s.mu.Lock()
	s.data.AccessToken = token
	s.data.User = user
	s.mu.Unlock()
	return s.save()
}

// Clear drops the token and profile and persists the empty session.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.data = sessionData{}
	s.mu.Unlock()
	return s.save()
}

func (s *Session) save() error {
	s.mu.Lock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
