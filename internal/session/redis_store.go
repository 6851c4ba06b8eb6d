package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisRecordKey = "bookreview:session"
	redisTokenKey  = "bookreview:token"

	redisTimeout = 3 * time.Second
)

// RedisStore keeps the session record in Redis under namespaced keys.
// Meant for headless or shared deployments where several client
// processes must observe the same session.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed credential store.
func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Load reads the combined record. A missing key yields ErrNotFound.
func (s *RedisStore) Load() (Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	data, err := s.client.Get(ctx, redisRecordKey).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session record: %w", err)
	}
	var rec Session
	if err := json.Unmarshal(data, &rec); err != nil {
		return Session{}, fmt.Errorf("parse session record: %w", err)
	}
	return rec, nil
}

// Save writes the record and the raw token copy in one round trip.
func (s *RedisStore) Save(rec Session) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisRecordKey, data, 0)
	pipe.Set(ctx, redisTokenKey, rec.Token, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

// Clear removes both keys.
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := s.client.Del(ctx, redisRecordKey, redisTokenKey).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("clear session record: %w", err)
	}
	return nil
}

// Token reads the raw fallback credential.
func (s *RedisStore) Token() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	tok, err := s.client.Get(ctx, redisTokenKey).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token copy: %w", err)
	}
	if tok == "" {
		return "", ErrNotFound
	}
	return tok, nil
}
