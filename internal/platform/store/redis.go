package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// keyPrefix namespaces collection keys inside a shared redis instance.
const keyPrefix = "healthconsult:"

// Redis is a Substrate backed by a redis string per key. Values carry no TTL;
// collections live until removed.
type Redis struct {
	c *redis.Client
}

func NewRedis(c *redis.Client) *Redis { return &Redis{c: c} }

// NewRedisFromURL dials redis using a redis:// URL and verifies the
// connection.
func NewRedisFromURL(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{c: c}, nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := r.c.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (r *Redis) Save(ctx context.Context, key string, data []byte) error {
	return r.c.Set(ctx, keyPrefix+key, data, 0).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.c.Close() }
