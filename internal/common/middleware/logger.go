package middleware

import (
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

const logFormat = "[${time}] ${status} - ${latency} ${method} ${url} | ${bytesSent}B\n"

// Logger пишет строку на запрос в stdout.
func Logger() fiber.Handler {
	return LoggerTo(os.Stdout)
}

// LoggerTo пишет строку на запрос в w. Запросы к /health/ не логируются:
// оркестратор опрашивает их каждые несколько секунд.
func LoggerTo(w io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health/")
		},
		Stream:     w,
		Format:     logFormat,
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
