// Package cache is a thin JSON layer over Redis. Every call degrades to a
// miss or no-op when Redis is not connected, so callers never fail because
// the cache is down.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/metrics"
)

var RDB *redis.Client

// Connect initialises the Redis client and verifies the connection with a ping.
// Returns an error so the caller can react (log warning, fall back, or abort).
func Connect(ctx context.Context) error {
	if config.RedisAddr() == "" {
		RDB = nil
		return fmt.Errorf("cache: REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil // mark as unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Use installs an existing client, or nil to disable caching.
func Use(client *redis.Client) { RDB = client }

// Close releases the client if one is connected.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value in Redis under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys from Redis.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Remember returns the cached value for key or computes it with fn and
// stores the result for ttl.
func Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() (interface{}, error)) error {
	if Get(ctx, key, dest) {
		return nil
	}
	v, err := fn()
	if err != nil {
		return err
	}
	if err := Set(ctx, key, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache set failed", "key", key, "error", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
