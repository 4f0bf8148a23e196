package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the session-scoped key-value backend. Values live and die with the
// session, the durable per-user cart is persisted elsewhere.
type Store interface {
	Get(c context.Context, sessionID string, key string) ([]byte, bool, error)
	Set(c context.Context, sessionID string, key string, value []byte) error
	Del(c context.Context, sessionID string, key string) error
}

const keyFormat = "session:%s:%s"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) RedisStore {
	return RedisStore{client: client, ttl: ttl}
}

func (s RedisStore) Get(c context.Context, sessionID string, key string) ([]byte, bool, error) {
	value, err := s.client.Get(c, fmt.Sprintf(keyFormat, sessionID, key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed getting session key=%s with error=%w", key, err)
	}
	return value, true, nil
}

func (s RedisStore) Set(c context.Context, sessionID string, key string, value []byte) error {
	err := s.client.Set(c, fmt.Sprintf(keyFormat, sessionID, key), value, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed setting session key=%s with error=%w", key, err)
	}
	return nil
}

func (s RedisStore) Del(c context.Context, sessionID string, key string) error {
	err := s.client.Del(c, fmt.Sprintf(keyFormat, sessionID, key)).Err()
	if err != nil {
		return fmt.Errorf("failed deleting session key=%s with error=%w", key, err)
	}
	return nil
}

// MemoryStore keeps session values in a process-local map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[fmt.Sprintf(keyFormat, sessionID, key)]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[fmt.Sprintf(keyFormat, sessionID, key)] = value
	return nil
}

func (s *MemoryStore) Del(_ context.Context, sessionID string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, fmt.Sprintf(keyFormat, sessionID, key))
	return nil
}
