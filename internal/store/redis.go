package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "echoself"

// Redis implements KV on top of a go-redis client. Keys are namespaced as
// "{prefix}:{key}" so the store can share an instance with other tenants.
type Redis struct {
	client    *redis.Client
	prefix    string
	prefixLen int
}

// NewRedis wraps an existing client. An empty prefix falls back to the
// default namespace.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{
		client:    client,
		prefix:    prefix,
		prefixLen: len(prefix) + 1,
	}
}

func (r *Redis) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	raw, err := r.client.Keys(ctx, r.prefix+":*").Result()
	if err != nil {
		return nil, fmt.Errorf("redis keys: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if len(k) > r.prefixLen {
			keys = append(keys, k[r.prefixLen:])
		}
	}
	return keys, nil
}
