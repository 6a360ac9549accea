package imageprocessor

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Preview formats
const (
	PreviewWebP = "webp"
	PreviewJPEG = "jpeg"
)

// PreviewFormat picks the preview encoding the browser accepts
func PreviewFormat(accept string) string {
	if strings.Contains(accept, "image/webp") {
		return PreviewWebP
	}
	return PreviewJPEG
}

// GetPreviewFormat reads the Accept header of the request
func GetPreviewFormat(c *fiber.Ctx) string {
	return PreviewFormat(c.Get(fiber.HeaderAccept))
}

func previewMimeType(format string) string {
	if format == PreviewWebP {
		return "image/webp"
	}
	return "image/jpeg"
}
