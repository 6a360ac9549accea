package controllers

import (
	"errors"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/i18n"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/storage"
	"github.com/ManuelReschke/PixelShrink/views/fragments"
)

// Translator picks the catalog for the request: ?lang=, then APP_LANGUAGE,
// then Accept-Language.
func Translator(c *fiber.Ctx) i18n.Translator {
	override := c.Query("lang")
	if override == "" {
		override = env.GetEnv("APP_LANGUAGE", i18n.Auto)
	}
	return i18n.Translator{Tag: i18n.Match(c.Get(fiber.HeaderAcceptLanguage), override)}
}

// StatusCode maps controller errors to HTTP status codes
func StatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, shrink.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, shrink.ErrNoFileSelected), errors.Is(err, shrink.ErrInvalidTargetSize):
		return fiber.StatusBadRequest
	case errors.Is(err, shrink.ErrCompressionInProgress):
		return fiber.StatusConflict
	case errors.Is(err, storage.ErrDownloadNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, shrink.ErrCompressionFailed):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// DownloadURL is the browser route serving a download token
func DownloadURL(token string) string {
	return constants.DownloadRoute + "/" + token
}

// ErrorCode turns a status code into a snake case error name, e.g. 415 ->
// "unsupported_media_type"
func ErrorCode(status int) string {
	return strings.ToLower(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}

func isHTMXRequest(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func csrfToken(c *fiber.Ctx) string {
	if token, ok := c.Locals("csrf").(string); ok {
		return token
	}
	return ""
}

// respondError reports transport level problems that never reach the
// controller's status line
func respondError(c *fiber.Ctx, status int, message string) error {
	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": ErrorCode(status), "message": message})
	}
	flash.WithError(c, fiber.Map{
		"type":    "error",
		"message": message,
	})
	if isHTMXRequest(c) {
		return renderComponent(c, status, fragments.ResultArea(fragments.Result{
			StatusKind: string(shrink.KindError),
			StatusText: message,
		}))
	}
	return redirectToStart(c)
}

// resultFragment is the status line and download section of view
func resultFragment(view shrink.View, tr i18n.Translator) fragments.Result {
	r := fragments.Result{
		StatusKind: string(view.Status.Kind),
		StatusText: tr.Status(view.Status),
	}
	if d := view.Download; d != nil {
		r.Download = &fragments.Download{
			URL:       DownloadURL(d.Token),
			FileName:  d.FileName,
			SizeLabel: tr.T("page.compressed"),
			SizeText:  d.SizeText,
			LinkText:  tr.T("page.download"),
		}
	}
	return r
}

func renderComponent(c *fiber.Ctx, status int, comp templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(comp, templ.WithStatus(status)))
	return handler(c)
}

// redirectToStart sends form posts back to the page and keeps the submitted
// target size in the field
func redirectToStart(c *fiber.Ctx) error {
	location := constants.PublicRoute
	if target := strings.TrimSpace(c.FormValue("target_size")); target != "" {
		location += "?" + url.Values{"target_size": {target}}.Encode()
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}
