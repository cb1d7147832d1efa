package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"invtrack/internal/services"
	"invtrack/internal/validate"
)

type LedgerHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/products/:id/ledger
// Works for retired products too: history outlives the product.
func (h *LedgerHandler) ByProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": "Product not found",
		})
	}
	return respond(c, h.Inv.ProductHistory(id), fiber.StatusOK)
}

// GET /api/v1/ledger/recent?limit=n
func (h *LedgerHandler) Recent(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return respond(c, h.Inv.RecentActivity(limit), fiber.StatusOK)
}
