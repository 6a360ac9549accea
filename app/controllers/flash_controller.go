package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
)

// HandleFlashUploadTooLarge sets a flash error and redirects to home
func HandleFlashUploadTooLarge(c *fiber.Ctx) error {
	flash.WithError(c, fiber.Map{
		"type":    "error",
		"message": Translator(c).T("error.too_large"),
	})
	return c.Redirect(constants.PublicRoute, fiber.StatusSeeOther)
}

// ErrorHandler replaces Fiber's default handler so an oversized upload on an
// HTML route ends up as a flash message instead of a bare 413
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if code == fiber.StatusRequestEntityTooLarge && c.Method() == fiber.MethodPost && !wantsJSON(c) && !isAPIPath(c) {
		return HandleFlashUploadTooLarge(c)
	}
	if wantsJSON(c) || isAPIPath(c) {
		return c.Status(code).JSON(fiber.Map{"error": ErrorCode(code), "message": err.Error()})
	}
	return fiber.DefaultErrorHandler(c, err)
}

func isAPIPath(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), constants.APIPrefix)
}
