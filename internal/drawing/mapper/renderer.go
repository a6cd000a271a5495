package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"tugisline/internal/drawing/models"
	"tugisline/internal/drawing/service"
)

// ============================================================
// Style constants
// ============================================================

const (
	GridColor      = "#e0e0e0"
	SelectionColor = "#3498db"
	BackgroundHex  = "#ffffff"
)

var (
	selectionDash = []float64{10, 5}
	previewDash   = []float64{5, 5}
)

// maxGridLines ограничивает число линий сетки по одной оси.
const maxGridLines = 10000

// gridDrawable сообщает, можно ли рисовать сетку в видимой области:
// линий не больше maxGridLines, и шаг различим на таких координатах.
func gridDrawable(start, end models.Point, size float64) bool {
	if size <= 0 {
		return false
	}
	for _, v := range []float64{start.X, start.Y, end.X, end.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v)+size == math.Abs(v) {
			return false
		}
	}
	return (end.X-start.X)/size <= maxGridLines && (end.Y-start.Y)/size <= maxGridLines
}

// ============================================================
// SVG Renderer
// ============================================================

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render собирает SVG кадра размером width x height в экранных пикселях.
func (r *Renderer) Render(frame service.Frame, width, height float64) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid canvas size %vx%v", width, height)
	}

	var elements []string
	if frame.ShowGrid {
		elements = append(elements, r.renderGrid(frame, width, height)...)
	}
	for _, shape := range frame.Shapes {
		elements = append(elements, r.renderShape(shape, shape.ID() == frame.SelectedID, nil))
	}
	if frame.Preview != nil {
		elements = append(elements, r.renderShape(frame.Preview, false, previewDash))
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <g transform="translate(%s) scale(%s)">`,
		formatPoint(frame.View.Pan), formatFloat(frame.View.Zoom)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("    ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString("  </g>\n")
	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderGrid(frame service.Frame, width, height float64) []string {
	var out []string
	start, end := frame.View.Visible(width, height)
	if !gridDrawable(start, end, frame.GridSize) {
		return out
	}

	stroke := formatFloat(1 / frame.View.Zoom)

	for x := math.Floor(start.X/frame.GridSize) * frame.GridSize; x < end.X; x += frame.GridSize {
		out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" />`,
			formatFloat(x), formatFloat(start.Y), formatFloat(x), formatFloat(end.Y), GridColor, stroke))
	}
	for y := math.Floor(start.Y/frame.GridSize) * frame.GridSize; y < end.Y; y += frame.GridSize {
		out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" />`,
			formatFloat(start.X), formatFloat(y), formatFloat(end.X), formatFloat(y), GridColor, stroke))
	}

	return out
}

func (r *Renderer) renderShape(shape models.Shape, selected bool, dash []float64) string {
	style := shape.GetStyle()
	stroke := style.Color
	lineWidth := style.LineWidth
	if selected {
		stroke = SelectionColor
		lineWidth += 2
		dash = selectionDash
	}

	fill := "none"
	if style.Fill && !isOpen(shape) {
		fill = html.EscapeString(style.FillColor)
	}

	attrs := fmt.Sprintf(`id="%s" fill="%s" stroke="%s" stroke-width="%s"`,
		html.EscapeString(shape.ID()), fill, html.EscapeString(stroke), formatFloat(lineWidth))
	if len(dash) > 0 {
		attrs += fmt.Sprintf(` stroke-dasharray="%s"`, formatDash(dash))
	}

	switch s := shape.(type) {
	case *models.Line:
		return fmt.Sprintf(`<line %s x1="%s" y1="%s" x2="%s" y2="%s" />`,
			attrs, formatFloat(s.Start.X), formatFloat(s.Start.Y), formatFloat(s.End.X), formatFloat(s.End.Y))

	case *models.Rectangle:
		lo, hi := s.Normalized()
		return fmt.Sprintf(`<rect %s x="%s" y="%s" width="%s" height="%s" />`,
			attrs, formatFloat(lo.X), formatFloat(lo.Y), formatFloat(hi.X-lo.X), formatFloat(hi.Y-lo.Y))

	case *models.Circle:
		return fmt.Sprintf(`<circle %s cx="%s" cy="%s" r="%s" />`,
			attrs, formatFloat(s.Center.X), formatFloat(s.Center.Y), formatFloat(s.Radius))

	case *models.Polygon:
		var path strings.Builder
		path.WriteString(`<path `)
		path.WriteString(attrs)
		path.WriteString(` d="M `)
		if len(s.Points) > 0 {
			path.WriteString(formatPoint(s.Points[0]))
			for _, p := range s.Points[1:] {
				path.WriteString(" L ")
				path.WriteString(formatPoint(p))
			}
		}
		if !s.Open {
			path.WriteString(" Z")
		}
		path.WriteString(`" />`)
		return path.String()
	}

	return ""
}

// isOpen - незамкнутый контур предпросмотра не заливается.
func isOpen(shape models.Shape) bool {
	poly, ok := shape.(*models.Polygon)
	return ok && poly.Open
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}

func formatDash(dash []float64) string {
	parts := make([]string, len(dash))
	for i, d := range dash {
		parts[i] = formatFloat(d)
	}
	return strings.Join(parts, " ")
}
