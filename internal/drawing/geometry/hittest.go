package geometry

import (
	"tugisline/internal/drawing/models"
)

// ============================================================
// Hit Testing
// ============================================================

const HitThreshold = 5.0 // Допуск попадания в логических единицах

// Hit сообщает, попадает ли точка p в фигуру s с допуском threshold.
func Hit(s models.Shape, p models.Point, threshold float64) bool {
	switch shape := s.(type) {
	case *models.Line:
		return SegmentDistance(p, shape.Start, shape.End) <= threshold
	case *models.Rectangle:
		return inRectangle(p, shape, threshold)
	case *models.Circle:
		return onCircle(p, shape, threshold)
	case *models.Polygon:
		return InPolygon(p, shape.Points)
	}
	return false
}

// SegmentDistance - расстояние от p до отрезка [a, b].
// Вырожденный отрезок меряется до a.
func SegmentDistance(p, a, b models.Point) float64 {
	cx := b.X - a.X
	cy := b.Y - a.Y
	lenSq := cx*cx + cy*cy

	if lenSq == 0 {
		return p.Dist(a)
	}

	t := ((p.X-a.X)*cx + (p.Y-a.Y)*cy) / lenSq
	t = clamp(t, 0, 1)

	return p.Dist(models.Point{X: a.X + t*cx, Y: a.Y + t*cy})
}

// InPolygon - правило чет-нечет, без допуска.
func InPolygon(p models.Point, vertices []models.Point) bool {
	inside := false
	for i, j := 0, len(vertices)-1; i < len(vertices); j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

func inRectangle(p models.Point, r *models.Rectangle, threshold float64) bool {
	lo, hi := r.Normalized()
	return p.X >= lo.X-threshold && p.X <= hi.X+threshold &&
		p.Y >= lo.Y-threshold && p.Y <= hi.Y+threshold
}

// onCircle - круг вместе с полосой допуска вокруг границы.
func onCircle(p models.Point, c *models.Circle, threshold float64) bool {
	return p.Dist(c.Center) <= c.Radius+threshold
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
