package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "invtrack/internal/log"
	"invtrack/internal/services"
	"invtrack/internal/validate"
)

type ProductHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return respond(c, h.Inv.ListProducts(), fiber.StatusOK)
}

// GET /api/v1/search?q=term
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if len(term) > 100 {
		term = term[:100]
	}
	return respond(c, h.Inv.SearchProducts(term), fiber.StatusOK)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": "Product not found",
		})
	}
	return respond(c, h.Inv.GetProduct(id), fiber.StatusOK)
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}
	res := h.Inv.CreateProduct(actorID(c), in)
	if res.Success {
		applog.Audit(c, "product.create", map[string]any{"sku": in.SKU, "product_id": res.Payload.ID})
	}
	return respond(c, res, fiber.StatusCreated)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}
	res := h.Inv.UpdateProduct(actorID(c), c.Params("id"), in)
	if res.Success {
		applog.Audit(c, "product.update", map[string]any{"product_id": c.Params("id")})
	}
	return respond(c, res, fiber.StatusOK)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	res := h.Inv.DeleteProduct(actorID(c), c.Params("id"))
	if res.Success {
		applog.Audit(c, "product.delete", map[string]any{"product_id": c.Params("id")})
	}
	return respond(c, res, fiber.StatusOK)
}

type adjustRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// POST /api/v1/products/:id/adjust
func (h *ProductHandler) Adjust(c *fiber.Ctx) error {
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}
	res := h.Inv.AdjustStock(actorID(c), c.Params("id"), req.Delta, req.Reason)
	if res.Success {
		applog.Audit(c, "product.adjust", map[string]any{
			"product_id": c.Params("id"), "delta": req.Delta, "quantity": res.Payload.Quantity,
		})
	}
	return respond(c, res, fiber.StatusOK)
}
