package viewmodel

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/i18n"
)

type Layout struct {
	Page  string
	T     i18n.Translator
	CSRF  string
	Msg   fiber.Map
	IsDev bool
}
