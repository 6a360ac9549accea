// Package fragments holds the page parts that are served both inside the
// start page and on their own to fetch callers.
package fragments

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Download describes a ready compressed file
type Download struct {
	URL       string
	FileName  string
	SizeLabel string
	SizeText  string
	LinkText  string
}

// Result is the status line plus the download section once one exists
type Result struct {
	StatusKind string
	StatusText string
	Download   *Download
}

// ResultArea renders r inside the swappable #result container
func ResultArea(r Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="result">`); err != nil {
			return err
		}
		if err := StatusMessage(r.StatusKind, r.StatusText).Render(ctx, w); err != nil {
			return err
		}
		if r.Download != nil {
			if err := DownloadSection(*r.Download).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// StatusMessage is hidden while text is empty
func StatusMessage(kind, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class := "status-message"
		if text != "" {
			class += " show " + kind
		}
		_, err := io.WriteString(w, `<div class="`+templ.EscapeString(class)+`" id="statusMessage" role="status">`+
			templ.EscapeString(text)+`</div>`)
		return err
	})
}

func DownloadSection(d Download) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="download-section" id="downloadSection">`+
			`<p id="compressedSizeDisplay">`+templ.EscapeString(d.SizeLabel)+`: `+templ.EscapeString(d.SizeText)+`</p>`+
			`<a id="downloadLink" class="download-link" href="`+templ.EscapeString(d.URL)+`" download="`+
			templ.EscapeString(d.FileName)+`">`+templ.EscapeString(d.LinkText)+`</a></div>`)
		return err
	})
}
