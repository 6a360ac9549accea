package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
)

const (
	diagnosticsMaxLimit = 200
	diagnosticsMaxDays  = 90
)

// DiagnosticsResponse is the JSON shape of the diagnostics route
type DiagnosticsResponse struct {
	ActiveCompressions int32 `json:"active_compressions"`
	Sessions           int   `json:"sessions"`
	*statistics.Diagnostics
}

// HandleDiagnostics reports load and the recent attempts, failures first, to
// operators. Query: limit (default 20), days (default 14).
func HandleDiagnostics(c *fiber.Ctx) error {
	limit := clamp(c.QueryInt("limit", 20), 1, diagnosticsMaxLimit)
	days := clamp(c.QueryInt("days", 14), 1, diagnosticsMaxDays)

	resp := DiagnosticsResponse{
		ActiveCompressions: imageprocessor.GetCompressor().ActiveProcesses(),
	}
	if registry := session.GetRegistry(); registry != nil {
		resp.Sessions = registry.Len()
	}
	if svc := statistics.GetService(); svc != nil {
		d, err := svc.Diagnostics(limit, days)
		if err != nil {
			fiberlog.Errorf("[Diagnostics] %v", err)
			return fiber.ErrInternalServerError
		}
		resp.Diagnostics = d
	}
	return c.JSON(resp)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
