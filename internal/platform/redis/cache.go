// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps JSON values in one key namespace with a fixed TTL.
type Cache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCache returns the namespace prefix, e.g. NewCache(client, "playlist:", time.Minute).
func NewCache(client redis.Cmdable, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get decodes the value at key into target and reports whether it was there.
// A value that no longer decodes is dropped and reported as a miss.
func (cache *Cache) Get(context context.Context, key string, target any) (bool, error) {
	raw, err := cache.client.Get(context, cache.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redis: get %s: %w", cache.key(key), err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		_ = cache.client.Del(context, cache.key(key)).Err()
		return false, nil
	}
	return true, nil
}

// Set stores value at key for the cache TTL.
func (cache *Cache) Set(context context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", cache.key(key), err)
	}
	if err := cache.client.Set(context, cache.key(key), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", cache.key(key), err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (cache *Cache) Delete(context context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = cache.key(key)
	}
	if err := cache.client.Del(context, full...).Err(); err != nil {
		return fmt.Errorf("redis: del %v: %w", full, err)
	}
	return nil
}

func (cache *Cache) key(key string) string {
	return cache.prefix + key
}
