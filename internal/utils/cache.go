package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache stores JSON encoded values under string keys
type Cache interface {
	GetCache(ctx context.Context, key string, dest any) (bool, error)
	SetCache(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteCache(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCache is the Redis backed Cache
type RedisCache struct {
	rdb *redis.Client // Redis client
}

// NewRedisCache wraps a Redis client
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func (c *RedisCache) GetCache(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func (c *RedisCache) SetCache(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func (c *RedisCache) DeleteCache(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// DeletePrefix deletes every key starting with prefix
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err // Scan failed
	}
	if len(keys) == 0 {
		return nil // Nothing cached
	}
	return c.DeleteCache(ctx, keys...)
}
