package cart

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Storage persists the serialized cart under a key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// MemoryStorage keeps carts in process, for development and tests.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

type kvClient interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(name string) string
}

// RedisStorage stores each cart as a string value with a sliding TTL.
type RedisStorage struct {
	client kvClient
	ttl    time.Duration
}

func NewRedisStorage(client kvClient, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := r.client.Lookup(ctx, r.client.CartKey(key))
	if err != nil || !found {
		return nil, found, err
	}
	return []byte(value), true, nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.client.CartKey(key), string(data), r.ttl)
}
