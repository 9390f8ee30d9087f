package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "blog:"

// RedisBackend keeps every key under a common prefix. Several client
// processes pointed at the same server share one key space, last write wins.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(ctx context.Context, cfg *RedisConfig) (*RedisBackend, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (r *RedisBackend) key(k string) string {
	return r.prefix + k
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return b, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
