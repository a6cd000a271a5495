package geometry

import (
	"math"

	"tugisline/internal/drawing/models"
)

// Bounds возвращает габаритный прямоугольник фигуры (min, max).
// Толщина линии не учитывается. Пустой многоугольник дает ok=false.
func Bounds(s models.Shape) (models.Point, models.Point, bool) {
	switch shape := s.(type) {
	case *models.Line:
		return minPoint(shape.Start, shape.End), maxPoint(shape.Start, shape.End), true
	case *models.Rectangle:
		lo, hi := shape.Normalized()
		return lo, hi, true
	case *models.Circle:
		return models.Point{X: shape.Center.X - shape.Radius, Y: shape.Center.Y - shape.Radius},
			models.Point{X: shape.Center.X + shape.Radius, Y: shape.Center.Y + shape.Radius}, true
	case *models.Polygon:
		if len(shape.Points) == 0 {
			return models.Point{}, models.Point{}, false
		}
		lo, hi := shape.Points[0], shape.Points[0]
		for _, p := range shape.Points[1:] {
			lo, hi = minPoint(lo, p), maxPoint(hi, p)
		}
		return lo, hi, true
	}
	return models.Point{}, models.Point{}, false
}

// SceneBounds объединяет габариты всех фигур.
func SceneBounds(shapes []models.Shape) (models.Point, models.Point, bool) {
	var lo, hi models.Point
	found := false
	for _, s := range shapes {
		a, b, ok := Bounds(s)
		if !ok {
			continue
		}
		if !found {
			lo, hi, found = a, b, true
			continue
		}
		lo, hi = minPoint(lo, a), maxPoint(hi, b)
	}
	return lo, hi, found
}

func minPoint(a, b models.Point) models.Point {
	return models.Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

func maxPoint(a, b models.Point) models.Point {
	return models.Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}
