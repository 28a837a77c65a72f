// Package cache stores computed recommendation lists in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"tunematch/internal/models"
)

const keyPrefix = "tunematch:rec"

// RecommendationCache stores recommendation lists by key.
type RecommendationCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (recs []models.Recommendation, ok bool, err error)
	Set(ctx context.Context, key string, recs []models.Recommendation) error
}

// Key builds the cache key of a single-song request. The catalog version is
// part of the key, so a reload makes older entries unreachable.
func Key(version string, n int, query string) string {
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, version, n, strings.ToLower(strings.TrimSpace(query)))
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a RecommendationCache backed by Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a Redis client and checks it with PING.
func Connect(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisCache(client, opts.TTL), nil
}

// NewRedisCache wraps an existing client. A zero ttl stores entries without
// expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements RecommendationCache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Recommendation, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	var recs []models.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return recs, true, nil
}

// Set implements RecommendationCache.
func (c *RedisCache) Set(ctx context.Context, key string, recs []models.Recommendation) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
