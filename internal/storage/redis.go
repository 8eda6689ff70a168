package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "interview:"

// RedisStore keeps values as plain redis strings.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. The ttl applies to the in-progress slot only;
// the archive never expires. A ttl of zero keeps every key until deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if ttl := s.ttlFor(key); ttl > 0 {
		// refresh on read, failure only shortens the lifetime
		_ = s.client.Expire(ctx, s.key(key), ttl).Err()
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, s.ttlFor(key)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) ttlFor(key string) time.Duration {
	if key != KeyInProgress {
		return 0
	}
	return s.ttl
}

func (s *RedisStore) key(key string) string {
	return redisKeyPrefix + key
}
