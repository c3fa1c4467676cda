package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 10 * time.Minute
	keyPrefix  = "aniweb:"
)

// Cache stores upstream responses as JSON. A Cache without a client is a
// permanent miss, which is how the service runs when REDIS_URL is unset.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Connect parses url and pings the server. An empty url returns a disabled
// cache.
func Connect(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	if url == "" {
		return NewCache(nil, ttl), nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewCache(client, ttl), nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func BuildKey(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

// Get decodes the cached value into dst. found is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}

	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Clear removes every key matching prefix.
func (c *Cache) Clear(ctx context.Context, prefix string) error {
	if !c.Enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
