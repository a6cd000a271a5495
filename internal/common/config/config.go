package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Drawing service
	DBPath         string
	MigrationsPath string
	ExportDir      string
	GridSize       float64
	ZoomMin        float64
	ZoomMax        float64
	CanvasWidth    int
	CanvasHeight   int

	// Gateway
	DrawingURL string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		DBPath:         getEnv("DRAWING_DB_PATH", "data/db/drawing.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init_drawings.sql"),
		ExportDir:      getEnv("EXPORT_DIR", "exports"),
		GridSize:       getEnvAsFloat("GRID_SIZE", 20),
		ZoomMin:        getEnvAsFloat("ZOOM_MIN", 0.1),
		ZoomMax:        getEnvAsFloat("ZOOM_MAX", 5.0),
		CanvasWidth:    getEnvAsInt("CANVAS_WIDTH", 1280),
		CanvasHeight:   getEnvAsInt("CANVAS_HEIGHT", 800),

		DrawingURL: getEnv("DRAWING_URL", "http://localhost:3001"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsFloat игнорирует нечисловые и неположительные значения.
func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}
