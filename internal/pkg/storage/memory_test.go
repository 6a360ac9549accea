package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

func TestMemoryStore_SaveOpenRevoke(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	dl, err := s.Save(ctx, shrink.Blob{Owner: "sess-1", Name: "compressed_a.jpg", MimeType: shrink.MimeJPEG, Data: []byte("12345")})
	require.NoError(t, err)
	assert.NotEmpty(t, dl.Token)
	assert.Equal(t, "compressed_a.jpg", dl.FileName)
	assert.Equal(t, int64(5), dl.Size)
	assert.Equal(t, "5 Bytes", dl.SizeText)

	obj, err := s.Open(ctx, dl.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", obj.Owner)
	assert.Equal(t, []byte("12345"), obj.Data)

	require.NoError(t, s.Revoke(ctx, dl.Token))
	_, err = s.Open(ctx, dl.Token)
	assert.ErrorIs(t, err, ErrDownloadNotFound)

	// revoking twice is fine
	require.NoError(t, s.Revoke(ctx, dl.Token))
}

func TestMemoryStore_TokensAreUnique(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	a, err := s.Save(context.Background(), shrink.Blob{Data: []byte("a")})
	require.NoError(t, err)
	b, err := s.Save(context.Background(), shrink.Blob{Data: []byte("b")})
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(10 * time.Minute)
	s.now = func() time.Time { return now }

	dl, err := s.Save(ctx, shrink.Blob{Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, now.Add(10*time.Minute), dl.ExpiresAt)

	now = now.Add(9 * time.Minute)
	_, err = s.Open(ctx, dl.Token)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Sweep())

	now = now.Add(time.Minute)
	_, err = s.Open(ctx, dl.Token)
	assert.ErrorIs(t, err, ErrDownloadNotFound)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
}

func TestNewFallsBackToMemory(t *testing.T) {
	s := New(0)
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)
	assert.NoError(t, s.Ping(context.Background()))
}
