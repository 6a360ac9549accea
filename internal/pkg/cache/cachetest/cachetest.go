// Package cachetest locates a Redis server for integration tests and skips
// the calling test when none is reachable.
package cachetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

// Endpoint is a reachable Redis address
type Endpoint struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%s", e.Host, e.Port)
}

// Resolve tries the configured cache plus a few conventional hosts
func Resolve(t *testing.T) Endpoint {
	t.Helper()

	hosts := unique(env.GetEnv("CACHE_HOST", ""), "cache", "localhost", "127.0.0.1")
	ports := unique(env.GetEnv("CACHE_PORT", "6379"), "6379")
	passwords := []string{env.GetEnv("CACHE_PASSWORD", "")}
	if passwords[0] != "" {
		passwords = append(passwords, "")
	}

	var lastErr error
	for _, host := range hosts {
		for _, port := range ports {
			for _, password := range passwords {
				client := redis.NewClient(&redis.Options{
					Addr:     fmt.Sprintf("%s:%s", host, port),
					Password: password,
				})

				ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
				_, err := client.Ping(ctx).Result()
				cancel()
				_ = client.Close()
				if err == nil {
					return Endpoint{Host: host, Port: port, Password: password}
				}
				lastErr = err
			}
		}
	}

	t.Skipf("Skipping Redis-dependent test: no reachable Redis endpoint (%v)", lastErr)
	return Endpoint{}
}

// NewClient returns a client on an isolated, flushed database
func NewClient(t *testing.T, db int) *redis.Client {
	t.Helper()

	ep := Resolve(t)
	client := redis.NewClient(&redis.Options{
		Addr:     ep.Addr(),
		Password: ep.Password,
		DB:       db,
	})

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Skipping Redis-dependent test: flushing db %d failed (%v)", db, err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

func unique(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
