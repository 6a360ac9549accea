package s3backup

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

type fakeAPI struct {
	mu        sync.Mutex
	headErr   error
	createErr error
	created   []string
	puts      map[string][]byte
	putErr    error
	lastType  string
}

func (f *fakeAPI) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeAPI) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = append(f.created, *in.Bucket)
	return &s3.CreateBucketOutput{}, f.createErr
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[*in.Key] = body
	f.lastType = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(func() { env.Env = nil })

	env.Env = map[string]string{}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsEnabled())
	assert.Equal(t, "us-west-001", cfg.Region)

	env.Env = map[string]string{"S3_BACKUP_ENABLED": "true", "S3_ACCESS_KEY_ID": "id"}
	_, err = LoadConfig()
	assert.Error(t, err)

	env.Env = map[string]string{
		"S3_BACKUP_ENABLED":    "true",
		"S3_ACCESS_KEY_ID":     "id",
		"S3_SECRET_ACCESS_KEY": "secret",
		"S3_BUCKET_NAME":       "archive",
	}
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsEnabled())
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "archive/2025/03/tok/compressed_cat.jpg", ObjectKey(at, "tok", "compressed_cat.jpg"))
	assert.Equal(t, "archive/2025/03/tok/evil.png", ObjectKey(at, "tok", "../../evil.png"))
}

func TestNewClientDisabled(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestEnsureBucket(t *testing.T) {
	t.Cleanup(func() { env.Env = nil })
	cfg := &Config{BucketName: "archive", Region: "us-east-1", Enabled: true}

	env.Env = map[string]string{"APP_ENV": "dev"}
	api := &fakeAPI{headErr: &types.NotFound{}}
	require.NoError(t, newClient(api, cfg).ensureBucket(context.Background()))
	assert.Equal(t, []string{"archive"}, api.created)

	t.Run("already owned", func(t *testing.T) {
		api := &fakeAPI{
			headErr:   &smithy.GenericAPIError{Code: "NoSuchBucket"},
			createErr: &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"},
		}
		assert.NoError(t, newClient(api, cfg).ensureBucket(context.Background()))
	})

	t.Run("access denied is not created", func(t *testing.T) {
		api := &fakeAPI{headErr: &smithy.GenericAPIError{Code: "Forbidden"}}
		assert.Error(t, newClient(api, cfg).ensureBucket(context.Background()))
		assert.Empty(t, api.created)
	})

	t.Run("transport error", func(t *testing.T) {
		api := &fakeAPI{headErr: errors.New("connection refused")}
		assert.Error(t, newClient(api, cfg).ensureBucket(context.Background()))
		assert.Empty(t, api.created)
	})

	env.Env = map[string]string{"APP_ENV": "prod"}
	api = &fakeAPI{headErr: &types.NotFound{}}
	assert.Error(t, newClient(api, cfg).ensureBucket(context.Background()))
	assert.Empty(t, api.created)
}

func TestArchiverUploadsSuccessfulAttempts(t *testing.T) {
	api := &fakeAPI{}
	archiver := NewArchiver(newClient(api, &Config{BucketName: "archive", Enabled: true}))
	archiver.now = func() time.Time { return time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC) }

	archiver.ObserveAttempt(context.Background(), shrink.Attempt{
		Download: &shrink.Download{Token: "t1", FileName: "compressed_a.jpg", MimeType: shrink.MimeJPEG},
		Data:     []byte("jpeg-bytes"),
	})
	archiver.ObserveAttempt(context.Background(), shrink.Attempt{Err: errors.New("boom")})
	archiver.Wait()

	require.Len(t, api.puts, 1)
	assert.Equal(t, []byte("jpeg-bytes"), api.puts["archive/2024/12/t1/compressed_a.jpg"])
	assert.Equal(t, shrink.MimeJPEG, api.lastType)
}

func TestArchiverSwallowsUploadErrors(t *testing.T) {
	api := &fakeAPI{putErr: errors.New("network down")}
	archiver := NewArchiver(newClient(api, &Config{BucketName: "archive", Enabled: true}))

	archiver.ObserveAttempt(context.Background(), shrink.Attempt{
		Download: &shrink.Download{Token: "t1", FileName: "compressed_a.png", MimeType: shrink.MimePNG},
		Data:     []byte("png"),
	})
	archiver.Wait()
	assert.Empty(t, api.puts)
}
