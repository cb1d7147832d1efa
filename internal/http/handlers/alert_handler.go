package handlers

import (
	"github.com/gofiber/fiber/v2"

	"invtrack/internal/config"
	applog "invtrack/internal/log"
	"invtrack/internal/services"
)

type AlertHandler struct {
	Inv      *services.InventoryService
	Settings *config.AlertSettings
}

// GET /api/v1/alerts
func (h *AlertHandler) List(c *fiber.Ctx) error {
	return respond(c, h.Inv.ActiveAlerts(), fiber.StatusOK)
}

// GET /api/v1/alerts/summary
func (h *AlertHandler) Summary(c *fiber.Ctx) error {
	return respond(c, h.Inv.AlertSummary(), fiber.StatusOK)
}

// POST /api/v1/alerts/reload re-reads thresholds from the environment.
func (h *AlertHandler) Reload(c *fiber.Ctx) error {
	h.Settings.Reload()
	t := h.Settings.Current()
	applog.Audit(c, "alerts.config.reload", map[string]any{
		"window_days": t.ExpiryWindowDays, "warning_days": t.ExpiryWarningDays,
	})
	return c.JSON(fiber.Map{"success": true, "message": "Alert settings reloaded"})
}
