package apiv1

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/i18n"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
)

// MaxWait caps the wait parameter of PostSessionCompress
const MaxWait = 30 * time.Second

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetSession returns the caller's current state
func (s *APIServer) GetSession(c *fiber.Ctx) error {
	ctrl, err := controllerFor(c)
	if err != nil {
		return err
	}
	return respondSession(c, ctrl, fiber.StatusOK)
}

// DeleteSession closes the caller's controller and destroys the session
func (s *APIServer) DeleteSession(c *fiber.Ctx) error {
	if err := session.End(c); err != nil {
		log.Errorf("[API] %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PostSessionFile selects the uploaded multipart field "file"
func (s *APIServer) PostSessionFile(c *fiber.Ctx) error {
	ctrl, err := controllerFor(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "multipart field 'file' is required")
	}
	file, err := upload.ReadFormFile(fh)
	if err != nil {
		log.Errorf("[API] %v", err)
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	err = ctrl.HandleFile(c.UserContext(), file)
	return respondSession(c, ctrl, controllers.StatusCode(err))
}

// PostSessionCompress starts a compression. With ?wait=N the call blocks up
// to N seconds for the result.
func (s *APIServer) PostSessionCompress(c *fiber.Ctx, params PostSessionCompressParams) error {
	ctrl, err := controllerFor(c)
	if err != nil {
		return err
	}

	var body CompressRequest
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	task, err := ctrl.Compress(c.UserContext(), body.TargetSize)
	if errors.Is(err, shrink.ErrCompressionInProgress) {
		return apiError(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return respondSession(c, ctrl, controllers.StatusCode(err))
	}

	if params.Wait != nil && *params.Wait > 0 {
		wait := time.Duration(*params.Wait) * time.Second
		if wait > MaxWait {
			wait = MaxWait
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), wait)
		defer cancel()
		_, _ = task.Wait(ctx)
	}
	return respondSession(c, ctrl, fiber.StatusAccepted)
}

// DeleteSessionDownload revokes the last result's download link
func (s *APIServer) DeleteSessionDownload(c *fiber.Ctx) error {
	ctrl, err := controllerFor(c)
	if err != nil {
		return err
	}
	if err := ctrl.RevokeDownload(c.UserContext()); err != nil {
		log.Warnf("[API] Revoke failed: %v", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func controllerFor(c *fiber.Ctx) (*shrink.Controller, error) {
	ctrl, err := session.ControllerFor(c)
	if err != nil {
		log.Errorf("[API] %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
	}
	return ctrl, nil
}

func respondSession(c *fiber.Ctx, ctrl *shrink.Controller, status int) error {
	return c.Status(status).JSON(NewSession(ctrl.Snapshot(), controllers.Translator(c)))
}

// NewSession maps a controller view to the API model
func NewSession(view shrink.View, tr i18n.Translator) Session {
	out := Session{
		State:       view.State.String(),
		CanCompress: view.CanCompress,
	}
	if view.File != nil {
		out.File = &FileInfo{
			Name:     view.File.Name,
			Size:     view.File.Size,
			SizeText: view.File.SizeText,
			MimeType: view.File.MimeType,
		}
	}
	if !view.Status.IsZero() {
		out.Status = &Status{
			Kind:   string(view.Status.Kind),
			Code:   string(view.Status.Code),
			Detail: view.Status.Detail,
			Text:   tr.Status(view.Status),
		}
	}
	if d := view.Download; d != nil {
		out.Download = &Download{
			URL:       controllers.DownloadURL(d.Token),
			FileName:  d.FileName,
			MimeType:  d.MimeType,
			Size:      d.Size,
			SizeText:  d.SizeText,
			ExpiresAt: d.ExpiresAt,
		}
	}
	return out
}
