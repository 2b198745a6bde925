// Package cache is a small key/value store with TTLs, backed by Redis when
// one is configured and by process memory otherwise. Values are stored as
// JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// Store is implemented by RedisStore and MemoryStore.
type Store interface {
	// Get unmarshals the value under key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Open returns a Redis store when REDIS_ADDR is set and answers a ping,
// otherwise an in-process memory store.
func Open(ctx context.Context) Store {
	addr := config.RedisAddr()
	if addr == "" {
		return NewMemory()
	}

	rs, err := Connect(ctx, addr, config.RedisPassword())
	if err != nil {
		logger.Warn("cache: redis unavailable, using memory store", "addr", addr, "error", err)
		return NewMemory()
	}
	return rs
}

// ------------------- Redis -------------------

// RedisStore keeps values in Redis.
type RedisStore struct {
	rdb *redis.Client
}

// Connect initialises the Redis client and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: redis get: %w", err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// ------------------- Memory -------------------

type memItem struct {
	data      []byte
	expiresAt time.Time // zero = no expiry
}

// sweepInterval bounds how often Set scans the whole map for expired keys.
const sweepInterval = time.Minute

// MemoryStore keeps values in a map. Expired keys are dropped on read, and
// Set evicts every expired key at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]memItem
	nextSweep time.Time
	now       func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{items: map[string]memItem{}, now: time.Now}
}

// sweep must be called with s.mu held.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for k, item := range s.items {
		if !item.expiresAt.IsZero() && !now.Before(item.expiresAt) {
			delete(s.items, k)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	item, ok := s.items[key]
	if ok && !item.expiresAt.IsZero() && !s.now().Before(item.expiresAt) {
		delete(s.items, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	now := s.now()
	item := memItem{data: data}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	s.sweep(now)
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}
