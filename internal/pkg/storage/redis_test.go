package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache/cachetest"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

func TestRedisStore_SaveOpenRevoke(t *testing.T) {
	client := cachetest.NewClient(t, 12)
	ctx := context.Background()
	s := NewRedisStore(client, time.Minute)

	require.NoError(t, s.Ping(ctx))

	dl, err := s.Save(ctx, shrink.Blob{Owner: "sess-9", Name: "compressed_b.png", MimeType: shrink.MimePNG, Data: []byte("png-bytes")})
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, fmt.Sprintf(DownloadDataKeyFormat, dl.Token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	obj, err := s.Open(ctx, dl.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", obj.Owner)
	assert.Equal(t, shrink.MimePNG, obj.MimeType)
	assert.Equal(t, []byte("png-bytes"), obj.Data)

	require.NoError(t, s.Revoke(ctx, dl.Token))
	_, err = s.Open(ctx, dl.Token)
	assert.ErrorIs(t, err, ErrDownloadNotFound)
}

func TestRedisStore_UnknownToken(t *testing.T) {
	client := cachetest.NewClient(t, 12)
	s := NewRedisStore(client, time.Minute)

	_, err := s.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDownloadNotFound)
}
