package apiv1

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
)

//go:embed openapi.yml
var specYAML []byte

// GetSwagger returns the OpenAPI document of this API
func GetSwagger() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return doc, nil
}

// RequestValidator rejects requests the document does not describe. Paths
// are matched relative to basePath. Bodies are left to the handlers so the
// session status reflects bad input.
func RequestValidator(doc *openapi3.T, basePath string) fiber.Handler {
	options := &openapi3filter.Options{ExcludeRequestBody: true}

	return func(c *fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), basePath)
		item := doc.Paths.Find(path)
		if item == nil {
			return apiError(c, fiber.StatusNotFound, "no such endpoint")
		}
		op := item.GetOperation(c.Method())
		if op == nil {
			return apiError(c, fiber.StatusMethodNotAllowed, "method not allowed")
		}

		req, err := adaptor.ConvertRequest(c, false)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		input := &openapi3filter.RequestValidationInput{
			Request: req,
			Route: &routers.Route{
				Spec:      doc,
				Path:      path,
				PathItem:  item,
				Method:    c.Method(),
				Operation: op,
			},
			Options: options,
		}
		if err := openapi3filter.ValidateRequest(c.UserContext(), input); err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		return c.Next()
	}
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Error{
		Error:   controllers.ErrorCode(status),
		Message: message,
	})
}
