package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache stores read command responses so repeated reads skip the storage layer
type Cache interface {
	// Get gets a cached value, the bool indicates whether the key had a live value
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set sets the key value pair with a time to live (ttl <= 0 means no expiry)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del deletes a key if it exists
	Del(ctx context.Context, key string) error
	// DelPrefix deletes all keys sharing the given prefix
	DelPrefix(ctx context.Context, prefix string) error
	// Close closes the cache
	Close(ctx context.Context) error
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// memoryCache is backed by a concurrency safe map
type memoryCache struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewMemory returns an in-memory cache
func NewMemory() Cache {
	return &memoryCache{data: map[string]entry{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired() {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) DelPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Close(ctx context.Context) error {
	m.mu.Lock()
	m.data = map[string]entry{}
	m.mu.Unlock()
	return nil
}
