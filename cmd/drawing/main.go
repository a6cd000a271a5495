package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"tugisline/internal/common/config"
	"tugisline/internal/common/middleware"
	"tugisline/internal/drawing/handlers"
	"tugisline/internal/drawing/repository"
	"tugisline/internal/drawing/service"
	"tugisline/internal/drawing/view"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Drawing Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	opts := service.DefaultOptions()
	opts.GridSize = cfg.GridSize
	opts.Bounds = view.ZoomBounds{Min: cfg.ZoomMin, Max: cfg.ZoomMax}
	if opts.Bounds.Min > opts.Bounds.Max {
		log.Printf("[DRAWING] ZOOM_MIN > ZOOM_MAX, using defaults")
		opts.Bounds = view.WebBounds
	}

	manager := service.NewManager(opts)
	storage := service.NewFileStorage(cfg.ExportDir)
	drawingHandler := handlers.NewDrawingHandler(manager, repo, storage, cfg.CanvasWidth, cfg.CanvasHeight)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "TugisLine Drawing Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(context.Background()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready", "sessions": manager.Len()})
	})

	// ============================================================
	// Drawing Routes
	// ============================================================

	drawingHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Drawing Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
