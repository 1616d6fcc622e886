package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSnapshotNotFound means no cart has been saved under the key yet.
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// SnapshotStore persists the full line list of a cart under a key.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]Line, error)
	Save(ctx context.Context, key string, lines []Line) error
	Delete(ctx context.Context, key string) error
}

// ─── Memory ──────────────────────────────────────────────────────────────────

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]Line, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return decode(raw)
}

func (s *MemoryStore) Save(_ context.Context, key string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// ─── File ────────────────────────────────────────────────────────────────────

// FileStore writes one JSON file per key inside Dir. Writes go through a
// temp file and rename so a crash never leaves a half-written snapshot.
type FileStore struct {
	Dir string
}

func (s FileStore) path(key string) string {
	return filepath.Join(s.Dir, filepath.Base(key)+".json")
}

func (s FileStore) Load(_ context.Context, key string) ([]Line, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart: read snapshot: %w", err)
	}
	return decode(raw)
}

func (s FileStore) Save(_ context.Context, key string, lines []Line) error {
	raw, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("cart: create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("cart: create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("cart: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cart: close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("cart: replace snapshot: %w", err)
	}
	return nil
}

func (s FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ─── Redis ───────────────────────────────────────────────────────────────────

// DefaultRedisTTL keeps an untouched cart for thirty days.
const DefaultRedisTTL = 30 * 24 * time.Hour

// RedisStore keeps snapshots under "<Prefix><key>" with a sliding TTL.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: "telas:cart:", TTL: DefaultRedisTTL}
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]Line, error) {
	raw, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart: redis get: %w", err)
	}
	return decode(raw)
}

func (s *RedisStore) Save(ctx context.Context, key string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, s.Prefix+key, raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("cart: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.Prefix+key).Err()
}

func decode(raw []byte) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("cart: corrupt snapshot: %w", err)
	}
	return lines, nil
}
