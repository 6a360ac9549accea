package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
)

func TestHandleDiagnostics(t *testing.T) {
	setupSessions(t, stubCompressor{})
	svc := statistics.Setup(nil)
	t.Cleanup(func() { statistics.Setup(nil) })
	svc.ObserveAttempt(context.Background(), shrink.Attempt{
		FileName:     "broken.png",
		MimeType:     shrink.MimePNG,
		OriginalSize: 10,
		TargetSizeKB: 5,
		Err:          errors.New("decode failed"),
	})
	session.GetRegistry().Get("someone")

	app := fiber.New()
	app.Get("/ops/diagnostics", HandleDiagnostics)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ops/diagnostics?limit=0&days=1000", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ActiveCompressions int32 `json:"active_compressions"`
		Sessions           int   `json:"sessions"`
		Totals             struct {
			Attempts  int64 `json:"attempts"`
			Successes int64 `json:"successes"`
		} `json:"totals"`
		RecentFailures []json.RawMessage `json:"recent_failures"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int32(0), body.ActiveCompressions)
	assert.Equal(t, 1, body.Sessions)
	assert.Equal(t, int64(1), body.Totals.Attempts)
	assert.Zero(t, body.Totals.Successes)
	assert.NotNil(t, body.RecentFailures)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, clamp(0, 1, 10))
	assert.Equal(t, 10, clamp(99, 1, 10))
	assert.Equal(t, 5, clamp(5, 1, 10))
}
