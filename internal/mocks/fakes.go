package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/google/uuid"
)

// MemoryMagicLinkStore is an in-memory MagicLinkRepository with the same conditional
// update semantics as the Postgres store.
type MemoryMagicLinkStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*auth.MagicLinkToken
}

func NewMemoryMagicLinkStore() *MemoryMagicLinkStore {
	return &MemoryMagicLinkStore{tokens: map[uuid.UUID]*auth.MagicLinkToken{}}
}

func (s *MemoryMagicLinkStore) Create(_ context.Context, t *auth.MagicLinkToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	s.tokens[t.ID] = &cp
	return nil
}

func (s *MemoryMagicLinkStore) CountCreatedSince(_ context.Context, email string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.Email == email && !t.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryMagicLinkStore) GetUnused(_ context.Context, token string) (*auth.MagicLinkToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token && !t.Used {
			cp := *t
			return &cp, nil
		}
	}
	return nil, auth.ErrTokenNotFound
}

func (s *MemoryMagicLinkStore) MarkUsed(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok || t.Used {
		return false, nil
	}
	t.Used = true
	return true, nil
}

// All returns a snapshot of every stored token.
func (s *MemoryMagicLinkStore) All() []auth.MagicLinkToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.MagicLinkToken, 0, len(s.tokens))
	for _, t := range s.tokens {
		out = append(out, *t)
	}
	return out
}

// MemoryContributorStore is an in-memory ContributorRepository.
type MemoryContributorStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*contributor.Contributor
	// BeforeCreate runs inside Create before the uniqueness check; tests use it to
	// simulate a concurrent insert.
	BeforeCreate func(c *contributor.Contributor)
}

func NewMemoryContributorStore() *MemoryContributorStore {
	return &MemoryContributorStore{byID: map[uuid.UUID]*contributor.Contributor{}}
}

func (s *MemoryContributorStore) Put(c *contributor.Contributor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.byID[c.ID] = &cp
}

func (s *MemoryContributorStore) Create(_ context.Context, c *contributor.Contributor) error {
	if s.BeforeCreate != nil {
		s.BeforeCreate(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == c.Email {
			return contributor.ErrDuplicateEmail
		}
	}
	cp := *c
	s.byID[c.ID] = &cp
	return nil
}

func (s *MemoryContributorStore) find(match func(*contributor.Contributor) bool) (*contributor.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, contributor.ErrNotFound
}

func (s *MemoryContributorStore) GetByID(_ context.Context, id uuid.UUID) (*contributor.Contributor, error) {
	return s.find(func(c *contributor.Contributor) bool { return c.ID == id })
}

func (s *MemoryContributorStore) GetByEmail(_ context.Context, email string) (*contributor.Contributor, error) {
	return s.find(func(c *contributor.Contributor) bool { return c.Email == email })
}

func (s *MemoryContributorStore) GetBySessionToken(_ context.Context, token string) (*contributor.Contributor, error) {
	return s.find(func(c *contributor.Contributor) bool {
		return c.SessionToken != nil && *c.SessionToken == token
	})
}

func (s *MemoryContributorStore) SetSessionToken(_ context.Context, id uuid.UUID, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return contributor.ErrNotFound
	}
	c.SessionToken = &token
	c.LastActive = &at
	return nil
}

func (s *MemoryContributorStore) TouchLastActive(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return contributor.ErrNotFound
	}
	c.LastActive = &at
	return nil
}

func (s *MemoryContributorStore) ClearSessionToken(_ context.Context, id uuid.UUID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok || c.SessionToken == nil || *c.SessionToken != token {
		return false, nil
	}
	c.SessionToken = nil
	return true, nil
}

// Count returns the number of stored contributors.
func (s *MemoryContributorStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// MemoryCache is an in-memory ports.Cache that ignores ttl.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	Gets int
	Err  error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string][]byte{}}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	if c.Err != nil {
		return nil, false, c.Err
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.data[key] = value
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

var (
	_ ports.MagicLinkRepository   = (*MemoryMagicLinkStore)(nil)
	_ ports.ContributorRepository = (*MemoryContributorStore)(nil)
	_ ports.Cache                 = (*MemoryCache)(nil)
)
