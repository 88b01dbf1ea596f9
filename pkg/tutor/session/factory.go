package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// NewStore creates a Store for the given driver type. The Redis driver
// requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &inMemoryStore{
			sessions: make(map[string]*memorySession),
		}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

// memorySession holds one conversation's history behind its own lock so
// concurrent turns on different sessions never contend.
type memorySession struct {
	mu       sync.Mutex
	messages []Message
}

// inMemoryStore implements Store using an in-memory map.
type inMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

func (s *inMemoryStore) cell(id string, create bool) *memorySession {
	s.mu.RLock()
	cell, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok || !create {
		return cell
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cell, ok = s.sessions[id]; ok {
		return cell
	}
	cell = &memorySession{}
	s.sessions[id] = cell
	return cell
}

// History implements Store.
func (s *inMemoryStore) History(ctx context.Context, id string) ([]Message, error) {
	cell := s.cell(id, false)
	if cell == nil {
		return nil, nil
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()
	out := make([]Message, len(cell.messages))
	copy(out, cell.messages)
	return out, nil
}

// AppendTurn implements Store.
func (s *inMemoryStore) AppendTurn(ctx context.Context, id string, user, assistant Message) error {
	cell := s.cell(id, true)

	cell.mu.Lock()
	defer cell.mu.Unlock()
	cell.messages = append(cell.messages, user, assistant)
	if n := len(cell.messages); n > MaxHistory {
		cell.messages = cell.messages[n-MaxHistory:]
	}
	return nil
}

// Clear implements Store.
func (s *inMemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close implements Store.
func (s *inMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}

// redisStore implements Store using a Redis list per session.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func historyKey(id string) string {
	return "tutor:history:" + id
}

// History implements Store.
func (s *redisStore) History(ctx context.Context, id string) ([]Message, error) {
	vals, err := s.client.LRange(ctx, historyKey(id), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	messages := make([]Message, 0, len(vals))
	for _, v := range vals {
		var m Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// AppendTurn implements Store.
func (s *redisStore) AppendTurn(ctx context.Context, id string, user, assistant Message) error {
	userVal, err := json.Marshal(user)
	if err != nil {
		return err
	}
	assistantVal, err := json.Marshal(assistant)
	if err != nil {
		return err
	}

	key := historyKey(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, userVal, assistantVal)
		pipe.LTrim(ctx, key, -MaxHistory, -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

// Clear implements Store.
func (s *redisStore) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, historyKey(id)).Err()
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
