package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces the seen flag; the visitor id is appended.
const DefaultPrefix = "cartanalytics-tour-seen:"

// SeenStore remembers which visitors have finished the guided tour.
type SeenStore interface {
	Seen(ctx context.Context, visitor string) (bool, error)
	MarkSeen(ctx context.Context, visitor string) error
}

// RedisStore keeps seen flags in Redis as "true" string values.
type RedisStore struct {
	client *backend.Client
	prefix string
}

type Option func(*RedisStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore connects to the Redis server at url (redis://host:port/db).
func NewRedisStore(url string, opts ...Option) (*RedisStore, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(visitor string) string {
	return s.prefix + visitor
}

func (s *RedisStore) Seen(ctx context.Context, visitor string) (bool, error) {
	val, err := s.client.Get(ctx, s.key(visitor)).Result()
	if errors.Is(err, backend.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val == "true", nil
}

func (s *RedisStore) MarkSeen(ctx context.Context, visitor string) error {
	if err := s.client.Set(ctx, s.key(visitor), "true", 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is an in-process SeenStore for running without Redis.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]bool)}
}

func (s *MemoryStore) Seen(_ context.Context, visitor string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seen[visitor], nil
}

func (s *MemoryStore) MarkSeen(_ context.Context, visitor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[visitor] = true
	return nil
}
