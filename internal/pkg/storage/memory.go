package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

// MemoryStore keeps results in process memory. Expired entries are invisible
// immediately and freed by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*Object
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Object),
	}
}

func (s *MemoryStore) Save(_ context.Context, blob shrink.Blob) (*shrink.Download, error) {
	token := uuid.NewString()
	obj := &Object{
		Owner:     blob.Owner,
		Name:      blob.Name,
		MimeType:  blob.MimeType,
		Size:      int64(len(blob.Data)),
		ExpiresAt: s.now().Add(s.ttl),
		Data:      blob.Data,
	}

	s.mu.Lock()
	s.entries[token] = obj
	s.mu.Unlock()

	return newDownload(token, obj), nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Open(_ context.Context, token string) (*Object, error) {
	s.mu.RLock()
	obj, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok || !s.now().Before(obj.ExpiresAt) {
		return nil, ErrDownloadNotFound
	}
	cp := *obj
	return &cp, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Sweep drops expired entries and returns how many were removed
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, obj := range s.entries {
		if !now.Before(obj.ExpiresAt) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
