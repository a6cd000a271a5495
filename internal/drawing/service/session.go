package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"tugisline/internal/drawing/document"
	"tugisline/internal/drawing/geometry"
	"tugisline/internal/drawing/models"
	"tugisline/internal/drawing/view"
)

// ============================================================
// Tools & modes
// ============================================================

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolPolygon   Tool = "polygon"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolLine, ToolRectangle, ToolCircle, ToolPolygon:
		return true
	}
	return false
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModePolygon
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	case ModePolygon:
		return "polygon"
	case ModePanning:
		return "panning"
	default:
		return "idle"
	}
}

// ============================================================
// Session
// ============================================================

type Options struct {
	GridSize  float64
	Bounds    view.ZoomBounds
	Threshold float64
}

func DefaultOptions() Options {
	return Options{
		GridSize:  view.DefaultGridSize,
		Bounds:    view.WebBounds,
		Threshold: geometry.HitThreshold,
	}
}

// Session - одна сцена с видом, текущим инструментом и незавершенным построением.
// Не потокобезопасна: владелец (Manager) сериализует события.
type Session struct {
	id    string
	opts  Options
	scene *Scene
	view  view.Transform

	tool     Tool
	props    models.Style
	showGrid bool
	snap     bool

	mode    Mode
	resume  Mode
	start   models.Point
	cursor  models.Point
	points  []models.Point
	lastPan models.Point

	status string
	now    func() time.Time
}

func NewSession(id string, opts Options) *Session {
	return &Session{
		id:       id,
		opts:     opts,
		scene:    NewScene(),
		view:     view.New(opts.Bounds),
		tool:     ToolSelect,
		props:    models.DefaultStyle(),
		showGrid: true,
		snap:     true,
		status:   "Ready - choose a tool to start drawing",
		now:      time.Now,
	}
}

func (s *Session) ID() string               { return s.id }
func (s *Session) Scene() *Scene            { return s.scene }
func (s *Session) View() view.Transform     { return s.view }
func (s *Session) Tool() Tool               { return s.tool }
func (s *Session) Mode() Mode               { return s.mode }
func (s *Session) Properties() models.Style { return s.props }

// SetTool переключает инструмент и отменяет незавершенное построение.
func (s *Session) SetTool(tool Tool) error {
	if !tool.Valid() {
		return fmt.Errorf("unknown tool %q", tool)
	}
	s.tool = tool
	s.Cancel()
	s.status = fmt.Sprintf("Tool: %s", tool)
	return nil
}

// logical переводит экранную точку в логическую с учетом привязки к сетке.
func (s *Session) logical(screen models.Point) models.Point {
	grid := 0.0
	if s.snap {
		grid = s.opts.GridSize
	}
	return s.view.ScreenToLogical(screen, grid)
}

// ============================================================
// Pointer events
// ============================================================

func (s *Session) PointerDown(screen models.Point, button Button, shift bool) {
	pos := s.logical(screen)

	// Средняя кнопка или shift + левая - панорамирование.
	// Начатое построение продолжается после отпускания кнопки.
	if button == ButtonMiddle || (button == ButtonLeft && shift) {
		if s.mode != ModePanning {
			s.resume = s.mode
		}
		s.mode = ModePanning
		s.lastPan = screen
		return
	}

	switch s.tool {
	case ToolSelect:
		s.selectAt(pos)
	case ToolPolygon:
		s.points = append(s.points, pos)
		s.mode = ModePolygon
	default:
		s.start = pos
		s.cursor = pos
		s.mode = ModeDrawing
	}
}

func (s *Session) PointerMove(screen models.Point) {
	if s.mode == ModePanning {
		s.view.PanBy(screen.X-s.lastPan.X, screen.Y-s.lastPan.Y)
		s.lastPan = screen
	}
	s.cursor = s.logical(screen)
}

func (s *Session) PointerUp(screen models.Point) {
	switch s.mode {
	case ModePanning:
		s.mode = s.resume
		s.resume = ModeIdle
	case ModeDrawing:
		s.finish(s.logical(screen))
		s.mode = ModeIdle
	}
}

// DoubleClick завершает многоугольник, если набрано не меньше трех точек.
func (s *Session) DoubleClick() {
	if s.tool != ToolPolygon || len(s.points) < 3 {
		return
	}
	s.scene.Add(models.NewPolygon(s.points, s.props))
	s.points = nil
	s.mode = ModeIdle
	log.Printf("[SESSION] %s: polygon added, objects=%d", s.id, s.scene.Len())
}

func (s *Session) finish(end models.Point) {
	var shape models.Shape
	switch s.tool {
	case ToolLine:
		shape = models.NewLine(s.start, end, s.props)
	case ToolRectangle:
		shape = models.NewRectangle(s.start, end, s.props)
	case ToolCircle:
		shape = models.NewCircle(s.start, end, s.props)
	}
	if shape == nil {
		return
	}
	s.scene.Add(shape)
	log.Printf("[SESSION] %s: %s added, objects=%d", s.id, shape.Kind(), s.scene.Len())
}

func (s *Session) selectAt(pos models.Point) {
	if shape, ok := s.scene.Select(pos, s.opts.Threshold); ok {
		s.status = fmt.Sprintf("Selected: %s", shape.Kind())
		return
	}
	s.status = "Selection cleared"
}

// Cancel отбрасывает незавершенное построение без создания фигуры.
func (s *Session) Cancel() {
	s.mode = ModeIdle
	s.resume = ModeIdle
	s.start = models.Point{}
	s.points = nil
}

// Preview возвращает пунктирный предпросмотр текущего построения.
func (s *Session) Preview() (models.Shape, bool) {
	switch s.mode {
	case ModeDrawing:
		switch s.tool {
		case ToolLine:
			return models.NewLine(s.start, s.cursor, s.props), true
		case ToolRectangle:
			return models.NewRectangle(s.start, s.cursor, s.props), true
		case ToolCircle:
			return models.NewCircle(s.start, s.cursor, s.props), true
		}
	case ModePolygon:
		if len(s.points) == 0 {
			return nil, false
		}
		pts := append(append([]models.Point(nil), s.points...), s.cursor)
		poly := models.NewPolygon(pts, s.props)
		poly.Open = true
		return poly, true
	}
	return nil, false
}

// ============================================================
// View
// ============================================================

func (s *Session) Wheel(deltaY float64)  { s.view.Wheel(deltaY) }
func (s *Session) ZoomIn()               { s.view.ZoomIn() }
func (s *Session) ZoomOut()              { s.view.ZoomOut() }
func (s *Session) ZoomBy(factor float64) { s.view.ZoomBy(factor) }
func (s *Session) ZoomReset()            { s.view.Reset() }

func (s *Session) SetGrid(visible bool) { s.showGrid = visible }
func (s *Session) SetSnap(enabled bool) { s.snap = enabled }

// ============================================================
// Scene mutations
// ============================================================

func (s *Session) DeleteSelected() {
	if s.scene.DeleteSelected() {
		log.Printf("[SESSION] %s: selected object deleted, objects=%d", s.id, s.scene.Len())
	}
}

func (s *Session) ClearAll() {
	if s.scene.Clear() {
		log.Printf("[SESSION] %s: scene cleared", s.id)
	}
}

// SetProperties задает свойства новых фигур и применяет их к выделенной.
func (s *Session) SetProperties(style models.Style) {
	s.props = style
	s.scene.ApplyStyle(style)
}

// ============================================================
// Save / Load
// ============================================================

// Save сериализует сцену и вид. Возвращает данные и имя файла для скачивания.
func (s *Session) Save(name string) ([]byte, string, error) {
	data, err := document.Encode(s.Document())
	if err != nil {
		return nil, "", fmt.Errorf("encode document: %w", err)
	}
	s.status = "Drawing saved"
	return data, document.Filename(name, s.now()), nil
}

func (s *Session) Document() *document.Document {
	return &document.Document{
		Version:   document.Version,
		Objects:   s.scene.Shapes(),
		Zoom:      s.view.Zoom,
		PanOffset: s.view.Pan,
	}
}

// Load заменяет сцену и вид. При ошибке состояние не меняется.
func (s *Session) Load(data []byte) error {
	doc, err := document.Decode(data)
	if err != nil {
		return err
	}
	s.Apply(doc)
	return nil
}

// Apply ставит документ в сессию. Масштаб из файла ограничивается
// границами сессии.
func (s *Session) Apply(doc *document.Document) {
	s.Cancel()
	s.scene.Replace(doc.Objects)
	s.view.Zoom = s.opts.Bounds.Clamp(doc.Zoom)
	s.view.Pan = doc.PanOffset
	s.status = "Drawing loaded"
	log.Printf("[SESSION] %s: document loaded, objects=%d", s.id, s.scene.Len())
}

// ============================================================
// Snapshots
// ============================================================

type SelectedInfo struct {
	ID        string      `json:"id"`
	Type      models.Kind `json:"type"`
	Color     string      `json:"color"`
	LineWidth float64     `json:"lineWidth"`
	Fill      bool        `json:"fill"`
	FillColor string      `json:"fillColor"`
}

// State - то, что показывают строка состояния и панель свойств.
type State struct {
	ID          string        `json:"id"`
	Tool        Tool          `json:"tool"`
	Mode        string        `json:"mode"`
	Status      string        `json:"status"`
	ObjectCount int           `json:"objectCount"`
	Zoom        float64       `json:"zoom"`
	ZoomPercent int           `json:"zoomPercent"`
	PanOffset   models.Point  `json:"panOffset"`
	Cursor      models.Point  `json:"cursor"`
	ShowGrid    bool          `json:"showGrid"`
	SnapToGrid  bool          `json:"snapToGrid"`
	GridSize    float64       `json:"gridSize"`
	Properties  models.Style  `json:"properties"`
	Selected    *SelectedInfo `json:"selected,omitempty"`
}

func (s *Session) State() State {
	st := State{
		ID:          s.id,
		Tool:        s.tool,
		Mode:        s.mode.String(),
		Status:      s.status,
		ObjectCount: s.scene.Len(),
		Zoom:        s.view.Zoom,
		ZoomPercent: int(math.Floor(s.view.Zoom*100 + 0.5)),
		PanOffset:   s.view.Pan,
		Cursor:      s.cursor,
		ShowGrid:    s.showGrid,
		SnapToGrid:  s.snap,
		GridSize:    s.opts.GridSize,
		Properties:  s.props,
	}
	if shape, ok := s.scene.Selected(); ok {
		style := shape.GetStyle()
		st.Selected = &SelectedInfo{
			ID:        shape.ID(),
			Type:      shape.Kind(),
			Color:     style.Color,
			LineWidth: style.LineWidth,
			Fill:      style.Fill,
			FillColor: style.FillColor,
		}
	}
	return st
}

// Frame - все, что нужно для перерисовки. Фигуры скопированы.
type Frame struct {
	Shapes     []models.Shape
	SelectedID string
	View       view.Transform
	ShowGrid   bool
	GridSize   float64
	Preview    models.Shape
}

func (s *Session) Frame() Frame {
	shapes := s.scene.Shapes()
	for i, shape := range shapes {
		shapes[i] = models.Clone(shape)
	}
	f := Frame{
		Shapes:   shapes,
		View:     s.view,
		ShowGrid: s.showGrid,
		GridSize: s.opts.GridSize,
	}
	if selected, ok := s.scene.Selected(); ok {
		f.SelectedID = selected.ID()
	}
	if preview, ok := s.Preview(); ok {
		f.Preview = preview
	}
	return f
}
