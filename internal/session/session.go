package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"plates-console/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle state of the device session
type State int

const (
	Anonymous State = iota
	Authenticated
	Refreshing
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	}
	return "anonymous"
}

var (
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrNoToken        = errors.New("no access token")
)

// Claims are the access token claims the console reads. They come from an
// unverified parse and only serve display and expiry hints.
type Claims struct {
	Subject   string
	Role      models.Role
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is before now
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Session holds the tokens and the last-known user of the device and
// persists them through a Store
type Session struct {
	mu    sync.RWMutex
	store Store
	snap  Snapshot
	state State
}

// New creates a session and restores whatever the store holds
func New(store Store) (*Session, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s := &Session{store: store, snap: *snap}
	if s.snap.AccessToken != "" {
		s.state = Authenticated
	}
	return s, nil
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AccessToken returns the current access token, or "" when anonymous
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.AccessToken
}

// RefreshToken returns the stored refresh token
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.RefreshToken
}

// User returns a copy of the cached user, or nil
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.User == nil {
		return nil
	}
	u := *s.snap.User
	return &u
}

// IsAuthenticated reports whether a user is cached alongside a token
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.AccessToken != "" && s.snap.User != nil
}

// HasRole reports whether the authenticated user has one of roles
func (s *Session) HasRole(roles ...models.Role) bool {
	u := s.User()
	if u == nil || s.AccessToken() == "" {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// SetTokens stores a token pair. An empty refresh token keeps the old one.
func (s *Session) SetTokens(pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.snap.RefreshToken = pair.RefreshToken
	}
	s.state = Authenticated
	return s.saveLocked()
}

// SetUser caches the user profile
func (s *Session) SetUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		s.snap.User = nil
	} else {
		cp := *u
		s.snap.User = &cp
	}
	return s.saveLocked()
}

// BeginRefresh marks the session as refreshing and returns the refresh token
func (s *Session) BeginRefresh() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}
	s.state = Refreshing
	return s.snap.RefreshToken, nil
}

// Clear drops tokens and user, locally and in the store
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = Snapshot{}
	s.state = Anonymous
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	log.Info().Msg("Session cleared")
	return nil
}

// Claims decodes the access token claims without verifying the signature
func (s *Session) Claims() (*Claims, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, ErrNoToken
	}
	return ParseClaims(token)
}

// ParseClaims decodes sub, role and exp from a JWT without verification
func ParseClaims(token string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	var c Claims
	if sub, err := claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		c.Role = models.Role(role)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return &c, nil
}

func (s *Session) saveLocked() error {
	snap := s.snap
	if err := s.store.Save(&snap); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
