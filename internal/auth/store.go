// Package auth holds the per-session authentication state that views read.
//
// A Store is created for each page load, hydrated once from whatever the browser
// persisted, and then handed down to handlers and templates. A missing or unreadable
// session never fails the request; it simply leaves the store unauthenticated.
package auth

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoSession is returned by a Source when nothing was persisted.
var ErrNoSession = errors.New("no persisted session")

type Identity struct {
	UserID     uint   `json:"userId"`
	UserNumber string `json:"userNumber"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type State struct {
	Authenticated bool      `json:"authenticated"`
	Identity      *Identity `json:"identity,omitempty"`
	Token         string    `json:"-"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}

// Source reads the raw persisted session, e.g. a cookie value.
type Source interface {
	Load() (string, error)
}

type SourceFunc func() (string, error)

func (f SourceFunc) Load() (string, error) {
	return f()
}

// Decoder turns a raw persisted session into an identity and its expiry.
type Decoder func(raw string) (Identity, time.Time, error)

type Store struct {
	src    Source
	decode Decoder

	mu       sync.RWMutex
	hydrated bool
	state    State
}

func NewStore(src Source, decode Decoder) *Store {
	return &Store{
		src:    src,
		decode: decode,
	}
}

// Hydrate loads the persisted session into the store. Only the first call does any work.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return
	}
	s.hydrated = true
	s.state = s.load()
}

func (s *Store) load() State {
	if s.src == nil || s.decode == nil {
		return State{}
	}

	raw, err := s.src.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			zap.L().Debug("session source failed, continuing unauthenticated", zap.Error(err))
		}
		return State{}
	}
	if raw == "" {
		return State{}
	}

	identity, expiresAt, err := s.decode(raw)
	if err != nil {
		zap.L().Debug("discarding unreadable session", zap.Error(err))
		return State{}
	}
	if !expiresAt.IsZero() && !expiresAt.After(time.Now()) {
		return State{}
	}

	return State{
		Authenticated: true,
		Identity:      &identity,
		Token:         raw,
		ExpiresAt:     expiresAt,
	}
}

// State returns a copy; callers may not mutate the store through it.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.Identity != nil {
		id := *st.Identity
		st.Identity = &id
	}

	return st
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Authenticated
}

// Identity returns the signed-in identity, or false when unauthenticated.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.Authenticated || s.state.Identity == nil {
		return Identity{}, false
	}

	return *s.state.Identity, true
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hydrated
}

// SignIn replaces the state after a successful login.
func (s *Store) SignIn(identity Identity, token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated = true
	s.state = State{
		Authenticated: true,
		Identity:      &identity,
		Token:         token,
		ExpiresAt:     expiresAt,
	}
}

// Reset clears the state on logout. The store stays hydrated so the stale cookie is not read back.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated = true
	s.state = State{}
}
