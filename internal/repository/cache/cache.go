// Package cache is a best-effort query-response cache backed by Redis.
// Errors are reported as misses; the relay works identically without it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Config holds connection parameters for the cache.
type Config struct {
	Addrs    []string
	Password string
	TTL      time.Duration
}

// Cache stores serialized query responses with a TTL.
type Cache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a Redis-backed cache.
func New(cfg Config, logger *zap.Logger) (*Cache, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache client: %w", err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}, nil
}

// Get retrieves a cached response. Any error counts as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	cmd := c.client.B().Get().Key(key).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Set stores a response with the configured TTL. Failures are logged only.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	cmd := c.client.B().Set().Key(key).Value(string(value)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close shuts down the client.
func (c *Cache) Close() {
	c.client.Close()
}
