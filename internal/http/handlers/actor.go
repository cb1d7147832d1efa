package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "invtrack/internal/log"
	"invtrack/internal/services"
)

// ResolveActor resolves the X-Actor-ID header to a known identity before any
// state-changing route runs. A missing or unknown header falls back to the
// system actor and writes an audit line, so the default is never silent.
func ResolveActor(inv *services.InventoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Actor-ID")
		actor, fellBack, err := inv.ResolveActor(requested)
		if err != nil {
			applog.Error(c, "actor.resolve.fail", err, map[string]any{"requested": requested})
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false, "message": "Storage unavailable, please retry",
			})
		}
		if fellBack {
			applog.Audit(c, "actor.fallback.system", map[string]any{
				"requested": requested, "actor_id": actor.ID,
			})
		}
		c.Locals("actor_id", actor.ID)
		return c.Next()
	}
}

func actorID(c *fiber.Ctx) string {
	id, _ := c.Locals("actor_id").(string)
	return id
}
