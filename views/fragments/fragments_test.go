package fragments

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r Result) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, ResultArea(r).Render(context.Background(), &buf))
	return buf.String()
}

func TestResultAreaEmpty(t *testing.T) {
	assert.Equal(t,
		`<div id="result"><div class="status-message" id="statusMessage" role="status"></div></div>`,
		render(t, Result{StatusKind: "info"}))
}

func TestResultAreaWithDownload(t *testing.T) {
	out := render(t, Result{
		StatusKind: "success",
		StatusText: "Done",
		Download: &Download{
			URL:       "/download/abc",
			FileName:  `compressed_"x".png`,
			SizeLabel: "Compressed size",
			SizeText:  "12.0 KB",
			LinkText:  "Download",
		},
	})
	assert.Contains(t, out, `<div class="status-message show success" id="statusMessage" role="status">Done</div>`)
	assert.Contains(t, out, `<p id="compressedSizeDisplay">Compressed size: 12.0 KB</p>`)
	assert.Contains(t, out, `href="/download/abc" download="compressed_&#34;x&#34;.png">Download</a>`)
}

func TestStatusMessageEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StatusMessage("error", "<b>bad</b>").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "&lt;b&gt;bad&lt;/b&gt;")
}
