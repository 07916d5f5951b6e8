package mem

import (
	"sync"
	"time"
)

// Store is the process-local cache used for generated plans and external
// signal lookups (weather, crowd levels).
type Store interface {
	Set(key string, value any, ttl time.Duration)
	Get(key string) (any, bool)
	Delete(key string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

type TTLStore struct {
	mu         sync.RWMutex
	data       map[string]entry
	maxEntries int
}

func NewTTLStore(maxEntries int) *TTLStore {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &TTLStore{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
	}
}

func (s *TTLStore) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) >= s.maxEntries {
		s.evictLocked()
	}
	s.data[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *TTLStore) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (s *TTLStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// evictLocked drops expired entries first, then the entry closest to expiry
// until the store has room again. Caller holds the write lock.
func (s *TTLStore) evictLocked() {
	now := time.Now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
	for len(s.data) >= s.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for k, e := range s.data {
			if oldestKey == "" || e.expiresAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.expiresAt
			}
		}
		delete(s.data, oldestKey)
	}
}
