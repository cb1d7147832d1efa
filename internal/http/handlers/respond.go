package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"invtrack/internal/services"
)

// respond maps a facade result onto an HTTP status. The facade's messages
// are the stable contract; this is the only place they are inspected.
func respond[T any](c *fiber.Ctx, res services.Result[T], successStatus int) error {
	if res.Success {
		return c.Status(successStatus).JSON(res)
	}
	return c.Status(failureStatus(res.Message)).JSON(res)
}

func failureStatus(msg string) int {
	switch {
	case msg == "Product not found":
		return fiber.StatusNotFound
	case msg == "SKU already exists":
		return fiber.StatusConflict
	case strings.HasPrefix(msg, "Insufficient stock"):
		return fiber.StatusConflict
	case strings.HasPrefix(msg, "Invalid "):
		return fiber.StatusBadRequest
	case strings.HasPrefix(msg, "Operation conflicted"):
		return fiber.StatusConflict
	default:
		return fiber.StatusServiceUnavailable
	}
}
