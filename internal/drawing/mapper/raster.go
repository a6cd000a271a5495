package mapper

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"tugisline/internal/drawing/models"
	"tugisline/internal/drawing/service"
)

// ============================================================
// Raster Renderer
// ============================================================

// Rasterizer перерисовывает кадр целиком: фон, сетка, фигуры, выделение, предпросмотр.
type Rasterizer struct{}

func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// RenderPNG рисует кадр размером width x height и пишет PNG в w.
func (r *Rasterizer) RenderPNG(w io.Writer, frame service.Frame, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	if err := r.draw(dc, frame); err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func (r *Rasterizer) draw(dc *gg.Context, frame service.Frame) error {
	dc.ClearWithColor(gg.Hex(BackgroundHex))

	dc.Push()
	defer dc.Pop()

	dc.Translate(frame.View.Pan.X, frame.View.Pan.Y)
	dc.Scale(frame.View.Zoom, frame.View.Zoom)

	if frame.ShowGrid {
		if err := r.drawGrid(dc, frame); err != nil {
			return fmt.Errorf("draw grid: %w", err)
		}
	}

	for _, shape := range frame.Shapes {
		if err := r.drawShape(dc, shape, shape.ID() == frame.SelectedID, nil); err != nil {
			return fmt.Errorf("draw %s %s: %w", shape.Kind(), shape.ID(), err)
		}
	}

	if frame.Preview != nil {
		if err := r.drawShape(dc, frame.Preview, false, previewDash); err != nil {
			return fmt.Errorf("draw preview: %w", err)
		}
	}
	return nil
}

func (r *Rasterizer) drawGrid(dc *gg.Context, frame service.Frame) error {
	start, end := frame.View.Visible(float64(dc.Width()), float64(dc.Height()))
	if !gridDrawable(start, end, frame.GridSize) {
		return nil
	}

	dc.ClearDash()
	dc.SetHexColor(GridColor)
	dc.SetLineWidth(1 / frame.View.Zoom)

	for x := math.Floor(start.X/frame.GridSize) * frame.GridSize; x < end.X; x += frame.GridSize {
		dc.DrawLine(x, start.Y, x, end.Y)
	}
	for y := math.Floor(start.Y/frame.GridSize) * frame.GridSize; y < end.Y; y += frame.GridSize {
		dc.DrawLine(start.X, y, end.X, y)
	}
	return dc.Stroke()
}

func (r *Rasterizer) drawShape(dc *gg.Context, shape models.Shape, selected bool, dash []float64) error {
	style := shape.GetStyle()
	stroke := style.Color
	lineWidth := style.LineWidth
	if selected {
		stroke = SelectionColor
		lineWidth += 2
		dash = selectionDash
	}

	if len(dash) > 0 {
		dc.SetDash(dash...)
	} else {
		dc.ClearDash()
	}
	dc.SetLineWidth(lineWidth)

	switch s := shape.(type) {
	case *models.Line:
		dc.DrawLine(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
	case *models.Rectangle:
		lo, hi := s.Normalized()
		dc.DrawRectangle(lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y)
	case *models.Circle:
		dc.DrawCircle(s.Center.X, s.Center.Y, s.Radius)
	case *models.Polygon:
		if len(s.Points) == 0 {
			return nil
		}
		dc.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, p := range s.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		if !s.Open {
			dc.ClosePath()
		}
	default:
		return fmt.Errorf("unsupported shape %T", shape)
	}

	// Линия не заливается, открытый контур тоже.
	if style.Fill && shape.Kind() != models.KindLine && !isOpen(shape) {
		dc.SetHexColor(style.FillColor)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}

	dc.SetHexColor(stroke)
	return dc.Stroke()
}
