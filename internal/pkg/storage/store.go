package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

// DefaultTTL is how long a download stays valid when DOWNLOAD_TTL is unset
const DefaultTTL = 30 * time.Minute

var ErrDownloadNotFound = errors.New("download not found or expired")

// Object is a stored result as served to the browser
type Object struct {
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
	Data      []byte    `json:"-"`
}

// Store keeps compressed results behind revocable tokens
type Store interface {
	shrink.DownloadStore
	Open(ctx context.Context, token string) (*Object, error)
	Ping(ctx context.Context) error
}

// New returns a Redis backed store when the cache is configured, a memory
// store otherwise
func New(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if client := cache.GetClient(); client != nil {
		log.Infof("[Storage] Using Redis download store (ttl %s)", ttl)
		return NewRedisStore(client, ttl)
	}
	log.Infof("[Storage] Using in-memory download store (ttl %s)", ttl)
	return NewMemoryStore(ttl)
}

var store Store

// Setup installs the process wide store
func Setup(ttl time.Duration) Store {
	store = New(ttl)
	return store
}

// SetStore replaces the process wide store
func SetStore(s Store) {
	store = s
}

func GetStore() Store {
	return store
}

func newDownload(token string, obj *Object) *shrink.Download {
	return &shrink.Download{
		Token:     token,
		FileName:  obj.Name,
		MimeType:  obj.MimeType,
		Size:      obj.Size,
		SizeText:  shrink.FormatBytes(obj.Size),
		ExpiresAt: obj.ExpiresAt,
	}
}
