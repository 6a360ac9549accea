package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

// ErrDisabled is returned by every helper when no cache host is configured
var ErrDisabled = errors.New("cache: disabled")

var (
	client *redis.Client
	mu     sync.Mutex
	ctx    = context.Background()
)

// SetupCache connects to the Redis compatible server at CACHE_HOST:CACHE_PORT.
// An empty CACHE_HOST leaves the cache disabled.
func SetupCache() {
	mu.Lock()
	defer mu.Unlock()

	host := env.GetEnv("CACHE_HOST", "")
	if host == "" {
		log.Info("[Cache] CACHE_HOST not set, cache disabled")
		client = nil
		return
	}
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	pong, err := client.Ping(pingCtx).Result()
	if err != nil {
		log.Warnf("[Cache] Could not connect to cache at %s: %v", client.Options().Addr, err)
	} else {
		log.Infof("[Cache] Connected to cache: %s", pong)
	}
}

// SetClient replaces the client; nil disables the cache
func SetClient(c *redis.Client) {
	mu.Lock()
	defer mu.Unlock()
	client = c
}

// GetClient returns the Redis client or nil when the cache is disabled
func GetClient() *redis.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

// Enabled reports whether a cache client is configured
func Enabled() bool {
	return GetClient() != nil
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	c := GetClient()
	if c == nil {
		return ErrDisabled
	}
	return c.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	c := GetClient()
	if c == nil {
		return "", ErrDisabled
	}
	return c.Get(ctx, key).Result()
}

// GetInt retrieves an integer value from the cache by key
func GetInt(key string) (int, error) {
	c := GetClient()
	if c == nil {
		return 0, ErrDisabled
	}
	return c.Get(ctx, key).Int()
}

// Delete removes a value from the cache by key
func Delete(key string) error {
	c := GetClient()
	if c == nil {
		return ErrDisabled
	}
	return c.Del(ctx, key).Err()
}
