package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/ManuelReschke/PixelShrink/internal/api/v1"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", cors.New(), limiter.New(limiter.Config{
		Max:        env.GetInt("API_RATE_LIMIT", 60),
		Expiration: time.Minute,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	if doc, err := apiv1.GetSwagger(); err != nil {
		log.Errorf("[API] OpenAPI document not loaded, requests are not validated: %v", err)
	} else {
		v1.Use(apiv1.RequestValidator(doc, constants.APIv1Base))
	}
	apiv1.RegisterHandlers(v1, apiv1.NewAPIServer())
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
