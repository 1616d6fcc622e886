// Package cache is a thin JSON cache over Redis. Every helper is a no-op
// (or a miss) when Redis is not connected, so callers never need to check.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/telascatalogo/telas/config"
)

var (
	mu  sync.RWMutex
	rdb *redis.Client
)

// Connect initialises the Redis client and verifies the connection with a ping.
// On failure the cache stays disabled and the error is returned so the caller
// can log it.
func Connect(ctx context.Context) error {
	c := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		SetClient(nil)
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	SetClient(c)
	return nil
}

// SetClient swaps the underlying client; nil disables the cache.
func SetClient(c *redis.Client) {
	mu.Lock()
	rdb = c
	mu.Unlock()
}

// Client returns the connected client, or nil.
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return rdb
}

// Close disconnects and disables the cache.
func Close() error {
	mu.Lock()
	c := rdb
	rdb = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// Get unmarshals the value under key into dest. Returns true on a hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	c := Client()
	if c == nil {
		return false
	}
	raw, err := c.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c := Client()
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(ctx context.Context, keys ...string) error {
	c := Client()
	if c == nil {
		return nil
	}
	return c.Del(ctx, keys...).Err()
}

// Remember returns the cached value under key, or calls fn, caches its
// result for ttl and returns it. Cache write failures are ignored.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var v T
	if Get(ctx, key, &v) {
		return v, nil
	}
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	_ = Set(ctx, key, v, ttl)
	return v, nil
}
