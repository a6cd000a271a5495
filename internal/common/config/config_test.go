package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GRID_SIZE", "ZOOM_MAX", "CANVAS_WIDTH", "DRAWING_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "3000" || cfg.GridSize != 20 || cfg.ZoomMax != 5 || cfg.CanvasWidth != 1280 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DrawingURL != "http://localhost:3001" {
		t.Fatalf("drawing url = %q", cfg.DrawingURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRID_SIZE", "25")
	t.Setenv("ZOOM_MAX", "10")
	t.Setenv("ZOOM_MIN", "-1")
	t.Setenv("CANVAS_HEIGHT", "abc")

	cfg := Load()
	if cfg.GridSize != 25 || cfg.ZoomMax != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.ZoomMin != 0.1 {
		t.Fatalf("zoom min = %v, want default for negative value", cfg.ZoomMin)
	}
	if cfg.CanvasHeight != 800 {
		t.Fatalf("canvas height = %v, want default for garbage", cfg.CanvasHeight)
	}
}
