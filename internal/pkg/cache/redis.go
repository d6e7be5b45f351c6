package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers keys for a while. FirstSeen reports true exactly once per
// key within the ttl window.
type Deduper interface {
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, key string) error
	GenerateKey(operation, key string) string
	Close() error
}

type redisCache struct {
	client      *redis.Client
	serviceName string
}

func NewRedisCache(addr, password string, db int, serviceName string) Deduper {
	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    password,
			DB:          db,
			DialTimeout: 2 * time.Second,
		}),
		serviceName: serviceName,
	}
}

// FirstSeen relies on SET NX so that concurrent replicas agree on a single
// first observer.
func (r redisCache) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.GenerateKey("seen", key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: setnx %q: %w", key, err)
	}
	return ok, nil
}

func (r redisCache) Forget(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.GenerateKey("seen", key)).Err(); err != nil {
		return fmt.Errorf("cache: del %q: %w", key, err)
	}
	return nil
}

func (r redisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}

func (r redisCache) Close() error {
	return r.client.Close()
}
