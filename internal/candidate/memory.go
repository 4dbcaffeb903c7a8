package candidate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process candidate store. Suitable for single-instance
// deployments and tests; use RedisStore when running more than one replica.
type MemoryStore struct {
	mu         sync.Mutex
	candidates map[string]Candidate
	now        func() time.Time
}

// NewMemoryStore creates an empty in-memory candidate store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		candidates: make(map[string]Candidate),
		now:        time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, c Candidate) error {
	if c.ExpiresAt.IsZero() {
		c.ExpiresAt = s.now().Add(DefaultTTL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.candidates[c.ID] = c
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, userID int64, id string) (*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[id]
	if !ok || c.UserID != userID || s.now().After(c.ExpiresAt) {
		return nil, ErrNotFound
	}

	delete(s.candidates, id)
	return &c, nil
}

func (s *MemoryStore) Discard(ctx context.Context, userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}

	delete(s.candidates, id)
	return nil
}

// sweepLocked drops expired candidates. Caller must hold the mutex.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, c := range s.candidates {
		if now.After(c.ExpiresAt) {
			delete(s.candidates, id)
		}
	}
}
