package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/storage"
)

type noopCompressor struct{}

func (noopCompressor) Compress(_ context.Context, file shrink.File, _ shrink.Options) (*shrink.Compressed, error) {
	return &shrink.Compressed{Data: file.Data, MimeType: file.MimeType}, nil
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cache.SetClient(nil)
	session.NewSessionStore(time.Hour)
	store := storage.NewMemoryStore(time.Minute)
	storage.SetStore(store)
	registry := session.SetupRegistry(func(id string) *shrink.Controller {
		return shrink.NewController(noopCompressor{}, store, shrink.WithID(id))
	})
	t.Cleanup(func() { registry.CloseAll(context.Background()) })

	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler})
	InstallRouter(app)
	return app
}

func TestInstallRouter(t *testing.T) {
	app := newApp(t)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"api ping", httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil), fiber.StatusOK},
		{"api hello", httptest.NewRequest(http.MethodGet, "/api/", nil), fiber.StatusOK},
		{"status json", httptest.NewRequest(http.MethodGet, "/status", nil), fiber.StatusOK},
		{"unknown download", httptest.NewRequest(http.MethodGet, "/download/nope", nil), fiber.StatusNotFound},
		{"preview without file", httptest.NewRequest(http.MethodGet, "/preview", nil), fiber.StatusNotFound},
		{"compress without csrf token", formPost("/compress", "target_size=10"), fiber.StatusForbidden},
		{"file without csrf token", formPost("/file", ""), fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPISkipsCSRF(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/compress", strings.NewReader(`{"target_size":"10"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func formPost(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}
