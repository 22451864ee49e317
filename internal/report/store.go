package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when the slot is empty.
var ErrNotFound = errors.New("no analysis report stored")

// Store is a single-slot report cache. Set always overwrites the slot
// wholesale; nothing is ever merged.
type Store interface {
	Get(ctx context.Context) (*AnalysisReport, error)
	Set(ctx context.Context, r *AnalysisReport) error
	Clear(ctx context.Context) error
}

// Provider hands out the store for a session key.
type Provider interface {
	ForSession(sessionKey string) Store
}

// ==========================
// Memory
// ==========================

// MemoryProvider keeps one encoded slot per session in process memory.
type MemoryProvider struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{slots: make(map[string][]byte)}
}

func (p *MemoryProvider) ForSession(sessionKey string) Store {
	return &memoryStore{provider: p, key: sessionKey}
}

type memoryStore struct {
	provider *MemoryProvider
	key      string
}

func (s *memoryStore) Get(ctx context.Context) (*AnalysisReport, error) {
	s.provider.mu.Lock()
	data, ok := s.provider.slots[s.key]
	s.provider.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

func (s *memoryStore) Set(ctx context.Context, r *AnalysisReport) error {
	if r == nil {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	s.provider.mu.Lock()
	s.provider.slots[s.key] = data
	s.provider.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.provider.mu.Lock()
	delete(s.provider.slots, s.key)
	s.provider.mu.Unlock()
	return nil
}

// ==========================
// Redis
// ==========================

// RedisProvider stores each session slot under keyPrefix+sessionKey.
type RedisProvider struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewRedisProvider builds a provider on client. A zero ttl keeps the entry
// until it is overwritten or cleared.
func NewRedisProvider(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisProvider {
	return &RedisProvider{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (p *RedisProvider) ForSession(sessionKey string) Store {
	return &redisStore{client: p.client, key: p.keyPrefix + sessionKey, ttl: p.ttl}
}

type redisStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func (s *redisStore) Get(ctx context.Context) (*AnalysisReport, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return Decode(data)
}

func (s *redisStore) Set(ctx context.Context, r *AnalysisReport) error {
	if r == nil {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
