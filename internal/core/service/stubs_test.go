package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory credential store
// ---------------------------------------------------------------------------

type stubCredentialStore struct {
	mu      sync.Mutex
	kind    domain.Kind
	byName  map[string]*domain.Principal
	findErr error // if set, FindByUsername returns this error
	saveErr error // if set, Save returns this error
	saves   int
}

func newStubStore(kind domain.Kind) *stubCredentialStore {
	return &stubCredentialStore{kind: kind, byName: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (s *stubCredentialStore) Kind() domain.Kind { return s.kind }

func (s *stubCredentialStore) Exists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byName[username]
	return ok, nil
}

func (s *stubCredentialStore) FindByUsername(_ context.Context, username string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.byName[username]
	if !ok {
		return nil, domain.ErrUnknownPrincipal
	}
	return clonePrincipal(p), nil
}

func (s *stubCredentialStore) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byName {
		if p.ID == id {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrUnknownPrincipal
}

func (s *stubCredentialStore) Save(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if _, ok := s.byName[p.Username]; ok {
		return nil, domain.ErrAlreadyExists
	}
	s.saves++
	c := clonePrincipal(p)
	c.ID = fmt.Sprintf("%s-%d", s.kind, s.saves)
	s.byName[c.Username] = c
	return clonePrincipal(c), nil
}

func (s *stubCredentialStore) List(_ context.Context) ([]*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Principal, 0, len(s.byName))
	for _, p := range s.byName {
		out = append(out, clonePrincipal(p))
	}
	return out, nil
}

func (s *stubCredentialStore) put(p domain.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[p.Username] = &p
}

// ---------------------------------------------------------------------------
// Hasher and limiter
// ---------------------------------------------------------------------------

type stubHasher struct {
	err error
}

func (h stubHasher) Hash(plaintext string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

func (h stubHasher) Verify(plaintext, hash string) bool {
	return strings.TrimPrefix(hash, "hashed:") == plaintext && strings.HasPrefix(hash, "hashed:")
}

type stubLimiter struct {
	failures map[string]int64
	err      error
	resets   int
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{failures: make(map[string]int64)}
}

func (l *stubLimiter) key(kind domain.Kind, username string) string {
	return string(kind) + ":" + username
}

func (l *stubLimiter) Failures(_ context.Context, kind domain.Kind, username string) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	return l.failures[l.key(kind, username)], nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, kind domain.Kind, username string) error {
	if l.err != nil {
		return l.err
	}
	l.failures[l.key(kind, username)]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, kind domain.Kind, username string) error {
	if l.err != nil {
		return l.err
	}
	l.resets++
	delete(l.failures, l.key(kind, username))
	return nil
}

var errStoreDown = errors.New("connection refused")
