// Package redis provides a small response cache in front of the heavier
// leaderboard and summary queries.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Rohan-1103/covidx/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL is how long cached query responses stay fresh.
const DefaultTTL = 60 * time.Second

// Client wraps the Redis client used for caching computed query responses.
type Client struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewClient creates a new Redis client using environment variables for configuration.
// Environment variables:
//   - REDIS_HOST: Redis host (default: "localhost")
//   - REDIS_PORT: Redis port (default: "6379")
//   - REDIS_PASSWORD: Redis password (default: "")
//   - REDIS_DB: Redis database number (default: "0")
//   - REDIS_CACHE_TTL_SECONDS: cache entry lifetime (default: 60)
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)
	ttlSeconds := utils.EnvInt64("REDIS_CACHE_TTL_SECONDS", int64(DefaultTTL/time.Second))

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db),
		zap.Int64("ttlSeconds", ttlSeconds))

	return &Client{
		client: rdb,
		logger: logger,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// Get returns the cached payload for key, or false on a miss. Errors are
// logged and reported as misses so the caller falls through to the database.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key with the configured TTL. Failures are
// logged and otherwise ignored; the cache is advisory.
func (c *Client) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
