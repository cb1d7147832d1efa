package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"invtrack/internal/config"
	"invtrack/internal/http/handlers"
	applog "invtrack/internal/log"
	"invtrack/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Never leak internals to the caller
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Rate limit exceeded, retry soon",
			})
		},
	}))

	deps := handlers.NewDeps(db, cfg)

	// ---------- Routes ----------
	api := app.Group("/api/v1")

	// Reads
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products/:id/ledger", deps.LedgerHandler.ByProduct)
	api.Get("/search", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.ProductHandler.Search)
	api.Get("/ledger/recent", deps.LedgerHandler.Recent)
	api.Get("/alerts", deps.AlertHandler.List)
	api.Get("/alerts/summary", deps.AlertHandler.Summary)
	api.Get("/dashboard", deps.DashboardHandler.Stats)
	api.Get("/dashboard/categories", deps.DashboardHandler.Categories)

	// Writes go through actor resolution so every ledger row names who acted
	withActor := handlers.ResolveActor(deps.Inventory)
	api.Post("/products", withActor, deps.ProductHandler.Create)
	api.Put("/products/:id", withActor, deps.ProductHandler.Update)
	api.Delete("/products/:id", withActor, deps.ProductHandler.Delete)
	api.Post("/products/:id/adjust", withActor, deps.ProductHandler.Adjust)
	api.Post("/alerts/reload", withActor, deps.AlertHandler.Reload)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": "Not found",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
