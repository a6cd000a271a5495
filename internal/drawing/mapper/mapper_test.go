package mapper

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"tugisline/internal/drawing/models"
	"tugisline/internal/drawing/service"
	"tugisline/internal/drawing/view"
)

func testFrame() service.Frame {
	fill := models.Style{Color: "#000000", LineWidth: 2, Fill: true, FillColor: "#ff0000"}
	rect := models.NewRectangle(models.Point{X: 80, Y: 80}, models.Point{X: 20, Y: 20}, fill)
	line := models.NewLine(models.Point{X: 0, Y: 0}, models.Point{X: 10, Y: 10}, models.DefaultStyle())

	return service.Frame{
		Shapes:     []models.Shape{rect, line},
		SelectedID: line.ID(),
		View:       view.New(view.WebBounds),
		GridSize:   20,
	}
}

func TestRenderSVG(t *testing.T) {
	frame := testFrame()
	frame.ShowGrid = true
	preview := models.NewPolygon([]models.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}, models.DefaultStyle())
	preview.Open = true
	frame.Preview = preview

	svg, err := NewRenderer().Render(frame, 100, 60)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	checks := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="60"`,
		`<g transform="translate(0 0) scale(1)">`,
		// Прямоугольник, нарисованный справа налево, нормализуется.
		`x="20" y="20" width="60" height="60"`,
		`fill="#ff0000"`,
		`stroke="#3498db" stroke-width="4" stroke-dasharray="10 5"`,
		`stroke-dasharray="5 5" d="M 0 0 L 5 0"`,
		`stroke="#e0e0e0"`,
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q\n%s", want, svg)
		}
	}
	if strings.Contains(svg, `L 5 0 Z`) {
		t.Error("open preview must not be closed")
	}
}

func TestRenderSVGEscapesID(t *testing.T) {
	line := models.NewLine(models.Point{X: 0, Y: 0}, models.Point{X: 10, Y: 10}, models.DefaultStyle())
	line.ShapeID = `"><script>alert(1)</script><x a="`
	frame := service.Frame{Shapes: []models.Shape{line}, View: view.New(view.WebBounds)}

	svg, err := NewRenderer().Render(frame, 100, 60)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(svg, "<script>") {
		t.Fatalf("id not escaped:\n%s", svg)
	}
	if !strings.Contains(svg, `id="&#34;&gt;&lt;script&gt;`) {
		t.Errorf("escaped id missing:\n%s", svg)
	}
}

func TestGridSkippedForExtremeView(t *testing.T) {
	views := map[string]view.Transform{
		"tiny zoom": {Zoom: 1e-5, Bounds: view.WebBounds},
		"huge pan":  {Zoom: 1, Pan: models.Point{X: 3e17, Y: -3e17}, Bounds: view.WebBounds},
	}

	for name, v := range views {
		t.Run(name, func(t *testing.T) {
			frame := testFrame()
			frame.View = v
			frame.ShowGrid = true

			svg, err := NewRenderer().Render(frame, 1280, 800)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if strings.Contains(svg, `stroke="#e0e0e0"`) {
				t.Error("grid drawn for unbounded view")
			}
			if !strings.Contains(svg, `fill="#ff0000"`) {
				t.Error("shapes missing")
			}

			var buf bytes.Buffer
			if err := NewRasterizer().RenderPNG(&buf, frame, 64, 48); err != nil {
				t.Fatalf("png: %v", err)
			}
		})
	}
}

func TestRenderSVGRejectsEmptyCanvas(t *testing.T) {
	if _, err := NewRenderer().Render(testFrame(), 0, 10); err == nil {
		t.Fatal("expected error for empty canvas")
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRasterizer().RenderPNG(&buf, testFrame(), 100, 100); err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}

	center := color.RGBAModel.Convert(img.At(50, 50)).(color.RGBA)
	if center.R < 200 || center.G > 60 || center.B > 60 {
		t.Errorf("center = %+v, want red fill", center)
	}

	corner := color.RGBAModel.Convert(img.At(95, 5)).(color.RGBA)
	if corner.R < 240 || corner.G < 240 || corner.B < 240 {
		t.Errorf("corner = %+v, want white background", corner)
	}
}
