package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/i18n"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/storage"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
	"github.com/ManuelReschke/PixelShrink/views/fragments"
)

// CompressWait is how long a plain form post waits for the result before
// redirecting back to the page
var CompressWait = 10 * time.Second

// StatusResponse is the JSON shape of GET /status
type StatusResponse struct {
	shrink.View
	StatusText  string `json:"status_text"`
	DownloadURL string `json:"download_url,omitempty"`
}

func NewStatusResponse(view shrink.View, tr i18n.Translator) StatusResponse {
	resp := StatusResponse{View: view, StatusText: tr.Status(view.Status)}
	if view.Download != nil {
		resp.DownloadURL = DownloadURL(view.Download.Token)
	}
	return resp
}

// HandleFile accepts the multipart field "file" as the new selection
func HandleFile(c *fiber.Ctx) error {
	ctrl, err := session.ControllerFor(c)
	if err != nil {
		fiberlog.Errorf("[File] %v", err)
		return fiber.ErrInternalServerError
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, Translator(c).T("error.upload"))
	}
	file, err := upload.ReadFormFile(fh)
	if err != nil {
		fiberlog.Errorf("[File] %v", err)
		return respondError(c, fiber.StatusBadRequest, Translator(c).T("error.upload"))
	}

	err = ctrl.HandleFile(c.UserContext(), file)
	return respondState(c, ctrl, StatusCode(err))
}

// HandleCompress starts a compression for the form field "target_size"
func HandleCompress(c *fiber.Ctx) error {
	ctrl, err := session.ControllerFor(c)
	if err != nil {
		fiberlog.Errorf("[Compress] %v", err)
		return fiber.ErrInternalServerError
	}

	task, err := ctrl.Compress(c.UserContext(), c.FormValue("target_size"))
	if errors.Is(err, shrink.ErrCompressionInProgress) {
		return respondError(c, fiber.StatusConflict, Translator(c).T("error.in_progress"))
	}
	if err != nil {
		return respondState(c, ctrl, StatusCode(err))
	}

	if wantsJSON(c) {
		return respondState(c, ctrl, fiber.StatusAccepted)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), CompressWait)
	defer cancel()
	if _, err := task.Wait(ctx); errors.Is(err, context.DeadlineExceeded) {
		fiberlog.Debugf("[Compress] Still running after %s, redirecting", CompressWait)
	}
	return respondState(c, ctrl, fiber.StatusOK)
}

// HandleStatus returns the caller's snapshot as JSON
func HandleStatus(c *fiber.Ctx) error {
	ctrl, err := session.ControllerFor(c)
	if err != nil {
		fiberlog.Errorf("[Status] %v", err)
		return fiber.ErrInternalServerError
	}
	return c.JSON(NewStatusResponse(ctrl.Snapshot(), Translator(c)))
}

// HandleDownload serves a stored result to the session that produced it
func HandleDownload(c *fiber.Ctx) error {
	id, err := session.SessionID(c)
	if err != nil {
		fiberlog.Errorf("[Download] %v", err)
		return fiber.ErrInternalServerError
	}
	store := storage.GetStore()
	if store == nil {
		return fiber.ErrServiceUnavailable
	}

	obj, err := store.Open(c.UserContext(), c.Params("token"))
	if err != nil {
		if !errors.Is(err, storage.ErrDownloadNotFound) {
			fiberlog.Errorf("[Download] %v", err)
		}
		return fiber.ErrNotFound
	}
	if obj.Owner != id {
		return fiber.ErrNotFound
	}

	c.Attachment(obj.Name)
	c.Set(fiber.HeaderContentType, obj.MimeType)
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.Send(obj.Data)
}

// HandleRevoke drops the caller's download link
func HandleRevoke(c *fiber.Ctx) error {
	ctrl, err := session.ControllerFor(c)
	if err != nil {
		fiberlog.Errorf("[Revoke] %v", err)
		return fiber.ErrInternalServerError
	}
	if err := ctrl.RevokeDownload(c.UserContext()); err != nil {
		fiberlog.Warnf("[Revoke] %v", err)
	}
	return respondState(c, ctrl, fiber.StatusOK)
}

// HandlePreview renders a thumbnail of the selected file. It never creates
// a controller for an unknown session.
func HandlePreview(c *fiber.Ctx) error {
	ctrl, ok, err := session.ExistingController(c)
	if err != nil {
		fiberlog.Errorf("[Preview] %v", err)
		return fiber.ErrInternalServerError
	}
	if !ok {
		return fiber.ErrNotFound
	}
	file, ok := ctrl.SelectedFile()
	if !ok {
		return fiber.ErrNotFound
	}

	data, mimeType, err := imageprocessor.CachedThumbnail(file.Data, imageprocessor.GetPreviewFormat(c))
	if err != nil {
		fiberlog.Warnf("[Preview] %q: %v", file.Name, err)
		return fiber.ErrUnprocessableEntity
	}
	c.Set(fiber.HeaderContentType, mimeType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=60")
	c.Vary(fiber.HeaderAccept)
	return c.Send(data)
}

// respondState answers with the snapshot for fetch and htmx callers and
// redirects plain form posts back to the page
func respondState(c *fiber.Ctx, ctrl *shrink.Controller, status int) error {
	tr := Translator(c)
	view := ctrl.Snapshot()

	if wantsJSON(c) {
		return c.Status(status).JSON(NewStatusResponse(view, tr))
	}
	if isHTMXRequest(c) {
		return renderComponent(c, status, fragments.ResultArea(resultFragment(view, tr)))
	}
	return redirectToStart(c)
}
