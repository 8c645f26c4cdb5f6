package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache is an in-process Cache used when redis is disabled or
// unreachable. Values are stored JSON-encoded so they behave like redis ones.
type LocalCache struct {
	items *gocache.Cache
}

func NewLocalCache(defaultTTL time.Duration) *LocalCache {
	return &LocalCache{items: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (c *LocalCache) SetWithTTL(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, data, ttl)
	return nil
}

func (c *LocalCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return false, nil
	}

	var data []byte
	switch v := v.(type) {
	case []byte:
		data = v
	case int64:
		data = strconv.AppendInt(nil, v, 10)
	default:
		return false, fmt.Errorf("unexpected cache value %T for %s", v, key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (c *LocalCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.items.Delete(key)
	}
	return nil
}

func (c *LocalCache) Incr(_ context.Context, key string) (int64, error) {
	// Add fails when the counter already exists, which is fine.
	_ = c.items.Add(key, int64(0), gocache.NoExpiration)
	n, err := c.items.IncrementInt64(key, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return n, nil
}
