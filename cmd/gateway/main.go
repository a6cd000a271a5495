package main

import (
	"fmt"
	"log"
	"time"

	"tugisline/internal/common/config"
	"tugisline/internal/common/middleware"
	"tugisline/internal/gateway/handlers"
	"tugisline/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

const apiPrefix = "/api/v1"

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "TugisLine Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(cfg.DrawingURL))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec("docs/tugisline.openapi.yaml"))
	app.Get("/docs", handlers.SwaggerUI("/docs/openapi.yaml"))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group(apiPrefix)

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "TugisLine API v1",
			"status":  "ok",
		})
	})

	// Drawing Service
	toDrawing := proxy.Pass(cfg.DrawingURL, apiPrefix)

	api.Post("/sessions", toDrawing)
	api.Get("/sessions/:id", toDrawing)
	api.Delete("/sessions/:id", toDrawing)
	api.Post("/sessions/:id/commands", toDrawing)
	api.Post("/sessions/:id/keys", toDrawing)
	api.Get("/sessions/:id/document", toDrawing)
	api.Put("/sessions/:id/document", toDrawing)
	api.Get("/sessions/:id/png", toDrawing)
	api.Get("/sessions/:id/svg", toDrawing)
	api.Post("/sessions/:id/exports", toDrawing)
	api.Post("/sessions/:id/drawings", toDrawing)
	api.Post("/sessions/:id/drawings/:drawingId", toDrawing)
	api.Put("/sessions/:id/drawings/:drawingId", toDrawing)

	api.Get("/drawings", toDrawing)
	api.Get("/drawings/:drawingId", toDrawing)
	api.Delete("/drawings/:drawingId", toDrawing)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying %s to %s", apiPrefix, cfg.DrawingURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
