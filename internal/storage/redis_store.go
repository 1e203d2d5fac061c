package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "zenitsu:state:"

// RedisStore keeps each logical key as one JSON string in Redis. Values
// never expire; the store is the system of record, not a cache.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ctx:    context.Background(),
	}
}

func (s *RedisStore) Load(key string) (json.RawMessage, bool, error) {
	val, err := s.client.Get(s.ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: redis load %q: %w", key, err)
	}
	return json.RawMessage(val), true, nil
}

func (s *RedisStore) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	if err := s.client.Set(s.ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis save %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(key string) error {
	if err := s.client.Del(s.ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("storage: redis clear %q: %w", key, err)
	}
	return nil
}
