package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), constants.APIPrefix)
		},
	}

	group := app.Group("", csrf.New(csrfConf))
	group.Get("/", controllers.HandleStart)
	group.Post("/file", controllers.HandleFile)
	group.Post("/compress", controllers.HandleCompress)
	group.Post(constants.DownloadRoute+"/revoke", controllers.HandleRevoke)
}
