package view

import (
	"math"

	"tugisline/internal/drawing/models"
)

// ============================================================
// Zoom bounds & steps
// ============================================================

const (
	ZoomInStep  = 1.1
	ZoomOutStep = 0.9

	DefaultGridSize = 20.0
)

type ZoomBounds struct {
	Min float64
	Max float64
}

// WebBounds - пределы веб-версии, MobileBounds - мобильного просмотрщика.
var (
	WebBounds    = ZoomBounds{Min: 0.1, Max: 5.0}
	MobileBounds = ZoomBounds{Min: 0.1, Max: 10.0}
)

func (b ZoomBounds) Clamp(z float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, z))
}

// ============================================================
// Transform
// ============================================================

// Transform отображает логические координаты в экранные:
// screen = logical*Zoom + Pan.
type Transform struct {
	Pan    models.Point
	Zoom   float64
	Bounds ZoomBounds
}

func New(bounds ZoomBounds) Transform {
	return Transform{Zoom: 1, Bounds: bounds}
}

func (t Transform) LogicalToScreen(p models.Point) models.Point {
	return models.Point{
		X: p.X*t.Zoom + t.Pan.X,
		Y: p.Y*t.Zoom + t.Pan.Y,
	}
}

// ScreenToLogical - обратное преобразование. При gridSize > 0
// каждая ось округляется к ближайшему узлу сетки после деления на зум.
func (t Transform) ScreenToLogical(p models.Point, gridSize float64) models.Point {
	x := (p.X - t.Pan.X) / t.Zoom
	y := (p.Y - t.Pan.Y) / t.Zoom

	if gridSize > 0 {
		x = Snap(x, gridSize)
		y = Snap(y, gridSize)
	}
	return models.Point{X: x, Y: y}
}

// Snap округляет v к ближайшему кратному size, половина - вверх.
func Snap(v, size float64) float64 {
	return math.Floor(v/size+0.5) * size
}

// ZoomBy умножает зум на factor и ограничивает результат.
// Неположительные и нечисловые множители игнорируются.
func (t *Transform) ZoomBy(factor float64) {
	if math.IsNaN(factor) || factor <= 0 {
		return
	}
	t.Zoom = t.Bounds.Clamp(t.Zoom * factor)
}

func (t *Transform) ZoomIn()  { t.ZoomBy(ZoomInStep) }
func (t *Transform) ZoomOut() { t.ZoomBy(ZoomOutStep) }

// Wheel: прокрутка вниз (deltaY > 0) отдаляет, вверх - приближает.
func (t *Transform) Wheel(deltaY float64) {
	if deltaY > 0 {
		t.ZoomBy(ZoomOutStep)
		return
	}
	t.ZoomBy(ZoomInStep)
}

// PanBy сдвигает смещение на экранную дельту без учета зума.
func (t *Transform) PanBy(dx, dy float64) {
	t.Pan.X += dx
	t.Pan.Y += dy
}

func (t *Transform) Reset() {
	t.Zoom = 1
	t.Pan = models.Point{}
}

// Visible возвращает логический прямоугольник, видимый в окне width x height.
func (t Transform) Visible(width, height float64) (models.Point, models.Point) {
	start := models.Point{X: -t.Pan.X / t.Zoom, Y: -t.Pan.Y / t.Zoom}
	end := models.Point{X: start.X + width/t.Zoom, Y: start.Y + height/t.Zoom}
	return start, end
}
