package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each directory as a hash under prefix+dir.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps a client. prefix namespaces the hash keys.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) hashKey(dir string) string { return r.prefix + Clean(dir) }

func (r *Redis) PutString(ctx context.Context, dir, key, value string) error {
	if err := r.client.HSet(ctx, r.hashKey(dir), key, value).Err(); err != nil {
		return fmt.Errorf("put %s/%s: %w", Clean(dir), key, err)
	}
	return nil
}

func (r *Redis) GetString(ctx context.Context, dir, key string) (string, error) {
	v, err := r.client.HGet(ctx, r.hashKey(dir), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s/%s: %w", Clean(dir), key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", Clean(dir), key, err)
	}
	return v, nil
}
