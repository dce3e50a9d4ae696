package session

import (
	"context"
	"time"

	"xpdash/internal/cache"
)

// MemoryStore keeps sessions in a bounded in-process LRU cache.
type MemoryStore struct {
	cache *cache.LRUCache[Session]
	now   func() time.Time
}

// NewMemoryStore holds up to maxSessions sessions, each for at most ttl.
func NewMemoryStore(maxSessions int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.NewLRUCache[Session](maxSessions, ttl),
		now:   time.Now,
	}
}

// Cache exposes the backing cache so it can be registered for cleanup.
func (m *MemoryStore) Cache() *cache.LRUCache[Session] { return m.cache }

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s, ok := m.cache.Get(id)
	if !ok || s.Expired(m.now()) {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Put(_ context.Context, s Session) error {
	ttl := s.TTL(m.now())
	if ttl == 0 {
		m.cache.Delete(s.ID)
		return nil
	}
	m.cache.SetWithTTL(s.ID, s, ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}
