package models

import (
	"math"

	"github.com/google/uuid"
)

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist возвращает евклидово расстояние до q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ============================================================
// Style
// ============================================================

type Style struct {
	Color     string  `json:"color"`
	LineWidth float64 `json:"lineWidth"`
	Fill      bool    `json:"fill"`
	FillColor string  `json:"fillColor"`
}

// DefaultStyle совпадает с начальными свойствами панели.
func DefaultStyle() Style {
	return Style{
		Color:     "#000000",
		LineWidth: 2,
		Fill:      false,
		FillColor: "#cccccc",
	}
}

// ============================================================
// Shapes
// ============================================================

type Kind string

const (
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindPolygon   Kind = "polygon"
)

// Shape - одна из Line, Rectangle, Circle, Polygon.
type Shape interface {
	ID() string
	Kind() Kind
	GetStyle() Style
	SetStyle(Style)
}

type Base struct {
	ShapeID string
	Style   Style
}

func NewBase(style Style) Base {
	return Base{ShapeID: NewID(), Style: style}
}

func NewID() string {
	return uuid.NewString()
}

func (b *Base) ID() string       { return b.ShapeID }
func (b *Base) GetStyle() Style  { return b.Style }
func (b *Base) SetStyle(s Style) { b.Style = s }

type Line struct {
	Base
	Start Point
	End   Point
}

func (*Line) Kind() Kind { return KindLine }

// Rectangle хранит исходную точку и знаковые размеры:
// при обратном протягивании Width/Height отрицательны.
type Rectangle struct {
	Base
	Origin Point
	Width  float64
	Height float64
}

func (*Rectangle) Kind() Kind { return KindRectangle }

// Normalized возвращает левый верхний и правый нижний углы.
func (r *Rectangle) Normalized() (Point, Point) {
	x1, x2 := r.Origin.X, r.Origin.X+r.Width
	y1, y2 := r.Origin.Y, r.Origin.Y+r.Height
	return Point{X: math.Min(x1, x2), Y: math.Min(y1, y2)},
		Point{X: math.Max(x1, x2), Y: math.Max(y1, y2)}
}

type Circle struct {
	Base
	Center Point
	Radius float64
}

func (*Circle) Kind() Kind { return KindCircle }

type Polygon struct {
	Base
	Points []Point
	// Open - незамкнутый контур предпросмотра, в документ не попадает.
	Open bool
}

func (*Polygon) Kind() Kind { return KindPolygon }

// ============================================================
// Constructors
// ============================================================

func NewLine(start, end Point, style Style) *Line {
	return &Line{Base: NewBase(style), Start: start, End: end}
}

func NewRectangle(start, end Point, style Style) *Rectangle {
	return &Rectangle{
		Base:   NewBase(style),
		Origin: start,
		Width:  end.X - start.X,
		Height: end.Y - start.Y,
	}
}

// NewCircle строит окружность с центром в start и радиусом до end.
func NewCircle(start, end Point, style Style) *Circle {
	return &Circle{Base: NewBase(style), Center: start, Radius: start.Dist(end)}
}

func NewPolygon(points []Point, style Style) *Polygon {
	pts := make([]Point, len(points))
	copy(pts, points)
	return &Polygon{Base: NewBase(style), Points: pts}
}

// Clone возвращает глубокую копию фигуры с тем же ID.
func Clone(s Shape) Shape {
	switch v := s.(type) {
	case *Line:
		c := *v
		return &c
	case *Rectangle:
		c := *v
		return &c
	case *Circle:
		c := *v
		return &c
	case *Polygon:
		c := *v
		c.Points = append([]Point(nil), v.Points...)
		return &c
	}
	return nil
}
