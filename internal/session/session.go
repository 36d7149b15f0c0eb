// Package session holds the process-wide admin token. It is injected into
// the gateway and the web handlers instead of living in a global, so tests
// can substitute their own.
//
// Writes come from exactly two places: a successful login (Set) and a
// rejected credential or explicit logout (Invalidate / Clear). Every
// gateway call reads it.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/csg33k/beneficiary-admin/internal/ports"
)

type Session struct {
	mu     sync.RWMutex
	store  ports.TokenStore
	token  string
	loaded bool
	hooks  []func()
	log    *slog.Logger
}

// New wraps store. A nil store keeps the token in memory only.
func New(store ports.TokenStore, log *slog.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{store: store, log: log}
}

// Token returns the current token. Having one does not prove it is still
// valid; only the next call that does not come back 401 does.
func (s *Session) Token(ctx context.Context) (string, bool) {
	s.mu.RLock()
	if s.loaded {
		t := s.token
		s.mu.RUnlock()
		return t, t != ""
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		t, err := s.store.Load(ctx)
		if err != nil {
			s.log.Warn("load session token", "error", err)
			return "", false
		}
		s.token = t
		s.loaded = true
	}
	return s.token, s.token != ""
}

// Set stores the token obtained from a successful login.
func (s *Session) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, token); err != nil {
		return err
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear drops the token without firing invalidation hooks (logout).
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	return s.store.Delete(ctx)
}

// Invalidate is called when the remote API rejects the credential. It clears
// the token and runs every registered hook.
func (s *Session) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.loaded = true
	hooks := append([]func(){}, s.hooks...)
	err := s.store.Delete(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("delete session token", "error", err)
	}
	s.log.Info("session invalidated by remote api")
	for _, h := range hooks {
		h()
	}
}

// OnInvalidate registers fn to run after every Invalidate.
func (s *Session) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// MemoryStore is a TokenStore that forgets everything on exit.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
