package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "invtrack/internal/log"
	"invtrack/internal/services"
)

type DashboardHandler struct {
	Dash *services.DashboardService
}

// GET /api/v1/dashboard
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Dash.Stats()
	if err != nil {
		applog.Error(c, "dashboard.stats.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false, "message": "Storage unavailable, please retry",
		})
	}
	return c.JSON(fiber.Map{"success": true, "message": "OK", "payload": stats})
}

// GET /api/v1/dashboard/categories
func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	dist, err := h.Dash.CategoryDistribution()
	if err != nil {
		applog.Error(c, "dashboard.categories.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false, "message": "Storage unavailable, please retry",
		})
	}
	return c.JSON(fiber.Map{"success": true, "message": "OK", "payload": dist})
}
