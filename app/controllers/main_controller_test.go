package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageApp(t *testing.T) *fiber.App {
	t.Helper()
	setupSessions(t, stubCompressor{})

	app := fiber.New(fiber.Config{
		Views:        html.New("../../views", ".html"),
		ErrorHandler: ErrorHandler,
	})
	app.Get("/", HandleStart)
	app.Post("/file", HandleFile)
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHandleStart_PersianByDefault(t *testing.T) {
	cl := &client{t: t, app: newPageApp(t)}

	resp := cl.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `dir="rtl"`)
	assert.Contains(t, body, "فشرده‌ساز تصویر")
	assert.NotContains(t, body, `id="processingSection"`)
}

func TestHandleStart_LanguageOverride(t *testing.T) {
	cl := &client{t: t, app: newPageApp(t)}

	req := httptest.NewRequest(http.MethodGet, "/?lang=de", nil)
	req.Header.Set("Accept-Language", "en")
	resp := cl.do(req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `lang="de"`)
	assert.Contains(t, body, "Bildkompressor")
}

func TestHandleStart_ShowsSelectedFile(t *testing.T) {
	cl := &client{t: t, app: newPageApp(t)}
	cl.do(fileRequest(t, "cat.png", "image/png", pngHead))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	resp := cl.do(req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `id="processingSection"`)
	assert.Contains(t, body, "File name: cat.png")
	assert.Contains(t, body, "File is ready for compression.")
}

func TestHandleStart_KeepsTargetSize(t *testing.T) {
	cl := &client{t: t, app: newPageApp(t)}
	cl.do(fileRequest(t, "cat.png", "image/png", pngHead))

	req := httptest.NewRequest(http.MethodGet, "/?target_size=80", nil)
	req.Header.Set("Accept-Language", "en")
	resp := cl.do(req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `name="target_size" min="1" value="80"`)
	assert.Contains(t, body, `<div id="result"><div class="status-message show info" id="statusMessage" role="status">File is ready for compression.</div></div>`)
}
