package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a [Storage] over a shared Redis instance, for server-side
// renderers where several processes serve the same logged-in user. Keys are
// namespaced by prefix and session scope so two users never collide.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps client. prefix defaults to "sg" and is usually the
// per-user scope, e.g. "sg:user:42".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "sg"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(key string) string {
	return r.prefix + ":" + key
}

// Get implements [Storage].
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrKeyNotFound
	case err != nil:
		return "", fmt.Errorf("storage: redis get %s: %w", key, err)
	}
	return value, nil
}

// Set implements [Storage]. Entries are not given a Redis TTL; the session
// manager enforces cache freshness itself so the three backends behave the
// same way.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", key, err)
	}
	return nil
}

// Delete implements [Storage].
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("storage: redis del %s: %w", key, err)
	}
	return nil
}
