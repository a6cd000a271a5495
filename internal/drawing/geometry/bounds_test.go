package geometry

import (
	"testing"

	"tugisline/internal/drawing/models"
)

func TestBounds(t *testing.T) {
	style := models.DefaultStyle()
	cases := []struct {
		name   string
		shape  models.Shape
		lo, hi models.Point
	}{
		{"line", models.NewLine(pt(10, 5), pt(0, 20), style), pt(0, 5), pt(10, 20)},
		{"reversed rectangle", models.NewRectangle(pt(80, 80), pt(20, 30), style), pt(20, 30), pt(80, 80)},
		{"circle", models.NewCircle(pt(50, 50), pt(53, 54), style), pt(45, 45), pt(55, 55)},
		{"polygon", models.NewPolygon([]models.Point{pt(0, 0), pt(-4, 9), pt(7, 3)}, style), pt(-4, 0), pt(7, 9)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi, ok := Bounds(tc.shape)
			if !ok || lo != tc.lo || hi != tc.hi {
				t.Fatalf("Bounds = %v %v %v, want %v %v", lo, hi, ok, tc.lo, tc.hi)
			}
		})
	}

	if _, _, ok := Bounds(models.NewPolygon(nil, style)); ok {
		t.Error("empty polygon has no bounds")
	}
}

func TestSceneBounds(t *testing.T) {
	style := models.DefaultStyle()
	if _, _, ok := SceneBounds(nil); ok {
		t.Fatal("empty scene has no bounds")
	}

	lo, hi, ok := SceneBounds([]models.Shape{
		models.NewLine(pt(0, 0), pt(10, 10), style),
		models.NewPolygon(nil, style),
		models.NewCircle(pt(100, -20), pt(105, -20), style),
	})
	if !ok || lo != pt(0, -25) || hi != pt(105, 10) {
		t.Fatalf("SceneBounds = %v %v %v", lo, hi, ok)
	}
}
