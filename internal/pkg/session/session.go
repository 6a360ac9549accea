package session

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

const createdAtKey = "created_at"

var sessionStore *session.Store

// NewSessionStore issues the session cookie. Sessions live in Redis database 1
// when the cache is reachable and in memory otherwise.
func NewSessionStore(expiration time.Duration) *session.Store {
	cfg := session.Config{
		CookieHTTPOnly: true,
		CookieSecure:   !env.IsDev(),
		CookieSameSite: "Lax",
		Expiration:     expiration,
		KeyLookup:      "cookie:session_id",
	}

	if storage := redisStorage(); storage != nil {
		cfg.Storage = storage
	}

	sessionStore = session.New(cfg)
	return sessionStore
}

func redisStorage() *redis.Storage {
	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		log.Warnf("[Session] Cache unreachable, keeping sessions in memory: %v", err)
		return nil
	}

	host := "localhost"
	port := 6379
	addr := cacheClient.Options().Addr
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	// Separate database for sessions, the cache uses DB 0
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: cacheClient.Options().Password,
		Database: 1,
		Reset:    false,
	})
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// SessionID returns the id of the caller's session, creating and saving it
// when needed so the cookie is sent back.
func SessionID(c *fiber.Ctx) (string, error) {
	if sessionStore == nil {
		return "", fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	id := sess.ID()
	if sess.Get(createdAtKey) == nil {
		sess.Set(createdAtKey, time.Now().Unix())
	}
	if err := sess.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

// ControllerFor returns the controller bound to the caller's session
func ControllerFor(c *fiber.Ctx) (*shrink.Controller, error) {
	registry := GetRegistry()
	if registry == nil {
		return nil, fmt.Errorf("session registry not initialized")
	}

	id, err := SessionID(c)
	if err != nil {
		return nil, err
	}
	return registry.Get(id), nil
}

// ExistingController returns the caller's controller without creating one.
// ok is false for a new session or one whose controller was evicted.
func ExistingController(c *fiber.Ctx) (ctrl *shrink.Controller, ok bool, err error) {
	registry := GetRegistry()
	if registry == nil {
		return nil, false, fmt.Errorf("session registry not initialized")
	}
	id, err := SessionID(c)
	if err != nil {
		return nil, false, err
	}
	ctrl, ok = registry.Lookup(id)
	return ctrl, ok, nil
}

// End closes the caller's controller, revoking its download, and destroys
// the session so the next request starts fresh
func End(c *fiber.Ctx) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if registry := GetRegistry(); registry != nil {
		registry.Remove(c.UserContext(), sess.ID())
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
