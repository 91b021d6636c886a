package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/redis/go-redis/v9"
)

// Snapshot is one successful catalog fetch.
type Snapshot struct {
	Entries   []model.Capability `json:"entries"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Store holds the current snapshot. Save replaces it whole; readers never
// observe a partially written entry list.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

type MemoryStore struct {
	current atomic.Pointer[Snapshot]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	return s.current.Load(), nil
}

func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	s.current.Store(snap)
	return nil
}

// RedisStore shares one snapshot between server replicas. The key expires
// with the TTL so a dead fleet does not leave a stale catalog behind.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	return nil
}
