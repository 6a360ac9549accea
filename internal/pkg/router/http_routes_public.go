package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.StatusRoute, controllers.HandleStatus)
	app.Get(constants.PreviewRoute, controllers.HandlePreview)
	app.Get(constants.DownloadRoute+"/:token", controllers.HandleDownload)

	// Flash helpers
	app.Get(constants.FlashUploadTooLargeRoute, controllers.HandleFlashUploadTooLarge)
}
