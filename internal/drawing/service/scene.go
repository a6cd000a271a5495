package service

import (
	"tugisline/internal/drawing/geometry"
	"tugisline/internal/drawing/models"
)

// ============================================================
// Scene
// ============================================================

// Scene хранит фигуры в порядке отрисовки (последняя - сверху)
// и ID выделенной фигуры. Выделение всегда указывает на фигуру из списка.
type Scene struct {
	shapes   []models.Shape
	selected string
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Add(shape models.Shape) {
	s.shapes = append(s.shapes, shape)
}

func (s *Scene) Len() int {
	return len(s.shapes)
}

// Shapes возвращает копию среза; сами фигуры общие.
func (s *Scene) Shapes() []models.Shape {
	out := make([]models.Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Select выделяет верхнюю фигуру под точкой. Промах снимает выделение.
func (s *Scene) Select(p models.Point, threshold float64) (models.Shape, bool) {
	s.selected = ""
	for i := len(s.shapes) - 1; i >= 0; i-- {
		if geometry.Hit(s.shapes[i], p, threshold) {
			s.selected = s.shapes[i].ID()
			return s.shapes[i], true
		}
	}
	return nil, false
}

func (s *Scene) Selected() (models.Shape, bool) {
	if i := s.indexOf(s.selected); i >= 0 {
		return s.shapes[i], true
	}
	return nil, false
}

// DeleteSelected удаляет ровно одну фигуру. Без выделения - ничего не делает.
func (s *Scene) DeleteSelected() bool {
	i := s.indexOf(s.selected)
	if i < 0 {
		return false
	}
	s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
	s.selected = ""
	return true
}

func (s *Scene) Clear() bool {
	if len(s.shapes) == 0 && s.selected == "" {
		return false
	}
	s.shapes = nil
	s.selected = ""
	return true
}

// ApplyStyle меняет стиль выделенной фигуры, геометрия не трогается.
func (s *Scene) ApplyStyle(style models.Style) bool {
	shape, ok := s.Selected()
	if !ok {
		return false
	}
	shape.SetStyle(style)
	return true
}

// Replace подменяет содержимое целиком (загрузка документа).
func (s *Scene) Replace(shapes []models.Shape) {
	s.shapes = append([]models.Shape(nil), shapes...)
	s.selected = ""
}

func (s *Scene) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, shape := range s.shapes {
		if shape.ID() == id {
			return i
		}
	}
	return -1
}
