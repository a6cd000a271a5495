package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

var healthClient = &http.Client{Timeout: 2 * time.Second}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готов, когда отвечает сервис рисования.
func ReadinessProbe(drawingURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		resp, err := healthClient.Get(drawingURL + "/health/ready")
		if err != nil {
			log.Printf("[HEALTH] drawing service unreachable: %v", err)
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "not ready",
				"drawing": "unreachable",
			})
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "not ready",
				"drawing": resp.StatusCode,
			})
		}
		return c.JSON(fiber.Map{
			"status":  "ready",
			"drawing": "ok",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
