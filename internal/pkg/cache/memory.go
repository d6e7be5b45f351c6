package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryCache is the single-process Deduper used when no Redis address is
// configured, and in tests.
type MemoryCache struct {
	mu          sync.Mutex
	expires     map[string]time.Time
	serviceName string
	now         func() time.Time
}

func NewMemoryCache(serviceName string) *MemoryCache {
	return &MemoryCache{
		expires:     make(map[string]time.Time),
		serviceName: serviceName,
		now:         time.Now,
	}
}

func (m *MemoryCache) FirstSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := m.now()
	id := m.GenerateKey("seen", key)

	m.mu.Lock()
	defer m.mu.Unlock()

	if exp, ok := m.expires[id]; ok && now.Before(exp) {
		return false, nil
	}
	m.expires[id] = now.Add(ttl)

	// Sweep lazily so the map does not grow without bound.
	if len(m.expires)%256 == 0 {
		for k, exp := range m.expires {
			if !now.Before(exp) {
				delete(m.expires, k)
			}
		}
	}
	return true, nil
}

func (m *MemoryCache) Forget(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expires, m.GenerateKey("seen", key))
	return nil
}

func (m *MemoryCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.serviceName, operation, key)
}

func (m *MemoryCache) Close() error { return nil }
