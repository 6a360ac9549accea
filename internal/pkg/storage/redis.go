package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

// Key formats: download:<token>:meta and download:<token>:data
const (
	DownloadMetaKeyFormat = "download:%s:meta"
	DownloadDataKeyFormat = "download:%s:data"
)

// RedisStore keeps results in Redis; expiry is delegated to key TTLs
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, blob shrink.Blob) (*shrink.Download, error) {
	token := uuid.NewString()
	obj := &Object{
		Owner:     blob.Owner,
		Name:      blob.Name,
		MimeType:  blob.MimeType,
		Size:      int64(len(blob.Data)),
		ExpiresAt: time.Now().Add(s.ttl),
	}

	meta, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode download metadata: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(DownloadDataKeyFormat, token), blob.Data, s.ttl)
		pipe.Set(ctx, fmt.Sprintf(DownloadMetaKeyFormat, token), meta, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store download: %w", err)
	}

	return newDownload(token, obj), nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	err := s.client.Del(ctx,
		fmt.Sprintf(DownloadMetaKeyFormat, token),
		fmt.Sprintf(DownloadDataKeyFormat, token),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to revoke download: %w", err)
	}
	return nil
}

func (s *RedisStore) Open(ctx context.Context, token string) (*Object, error) {
	meta, err := s.client.Get(ctx, fmt.Sprintf(DownloadMetaKeyFormat, token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDownloadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read download metadata: %w", err)
	}

	var obj Object
	if err := json.Unmarshal(meta, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode download metadata: %w", err)
	}

	data, err := s.client.Get(ctx, fmt.Sprintf(DownloadDataKeyFormat, token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDownloadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read download data: %w", err)
	}
	obj.Data = data
	return &obj, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
