package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces revkit translation keys.
const DefaultKeyPrefix = "revkit:tr:"

// RedisStore is a Store shared through redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// ConnectRedis creates a redis-backed store and verifies connectivity.
// ttl 0 keeps entries forever.
func ConnectRedis(url, prefix string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(rdb, prefix, ttl), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Key returns the full redis key of a store key.
func (s *RedisStore) Key(key string) string { return s.prefix + key }

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, s.Key(key), value, s.ttl).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.rdb.Close() }
