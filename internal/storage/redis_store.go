package storage

import (
	"context"
	"errors"

	"github.com/ikkim/freshcart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each snapshot as a plain string value under prefix+key
type RedisStore struct {
	client redis.Cmdable
	prefix string
	closer func() error
}

// NewRedisStore wraps an established client. closer may be nil when the
// caller owns the connection lifecycle.
func NewRedisStore(client redis.Cmdable, prefix string, closer func() error) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, closer: closer}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to read snapshot from Redis", err, map[string]interface{}{
			"key": s.prefix + key,
		})
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	// no expiry: snapshots live until replaced
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		logger.Error("Failed to write snapshot to Redis", err, map[string]interface{}{
			"key":  s.prefix + key,
			"size": len(value),
		})
		return err
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
