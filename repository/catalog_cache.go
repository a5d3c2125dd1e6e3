package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ProductsCacheKey = "catalog:products"
	ClassesCacheKey  = "catalog:classes"
	staleSuffix      = ":stale"
)

// CatalogCache caches catalog listings. Every write also refreshes a copy
// without expiry that is served when the upstream API is down.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// Get decodes the fresh entry into out. It reports false on a miss.
func (c *CatalogCache) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	return c.get(ctx, key, out)
}

// GetStale decodes the last known good entry into out.
func (c *CatalogCache) GetStale(ctx context.Context, key string, out interface{}) (bool, error) {
	return c.get(ctx, key+staleSuffix, out)
}

func (c *CatalogCache) get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the cache TTL and as the stale fallback.
func (c *CatalogCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, c.ttl)
		pipe.Set(ctx, key+staleSuffix, data, 0)
		return nil
	})
	return err
}
