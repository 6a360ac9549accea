package router

import "github.com/gofiber/fiber/v2"

// HttpRouter mounts the browser facing routes
type HttpRouter struct{}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

// InstallRouter mounts polling, preview and download ahead of the CSRF group,
// so GET requests from app.js never need a token.
func (h HttpRouter) InstallRouter(app *fiber.App) {
	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}
