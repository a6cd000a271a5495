package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tugisline/internal/drawing/models"
)

// ============================================================
// Document
// ============================================================

const (
	Version     = "1.0"
	DefaultName = "tugisline"
)

// ErrInvalidDocument - вход не является документом сцены.
var ErrInvalidDocument = errors.New("invalid drawing document")

// Document - сцена целиком вместе с состоянием вида.
type Document struct {
	Version   string
	Objects   []models.Shape
	Zoom      float64
	PanOffset models.Point
}

// Filename строит имя файла для скачивания: <name>-<unix millis>.json.
func Filename(name string, at time.Time) string {
	if name == "" {
		name = DefaultName
	}
	return fmt.Sprintf("%s-%d.json", name, at.UnixMilli())
}

// ============================================================
// Wire format
// ============================================================

type wireDocument struct {
	Version   string        `json:"version"`
	Objects   *[]wireObject `json:"objects"`
	Zoom      *float64      `json:"zoom"`
	PanOffset *models.Point `json:"panOffset"`
}

// wireObject - плоское представление фигуры: type, геометрия и стиль рядом.
type wireObject struct {
	Type models.Kind `json:"type"`
	ID   string      `json:"id,omitempty"`

	Start *models.Point `json:"start,omitempty"`
	End   *models.Point `json:"end,omitempty"`

	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	Center *models.Point `json:"center,omitempty"`
	Radius *float64      `json:"radius,omitempty"`

	Points []models.Point `json:"points,omitempty"`

	Color     *string  `json:"color,omitempty"`
	LineWidth *float64 `json:"lineWidth,omitempty"`
	Fill      *bool    `json:"fill,omitempty"`
	FillColor *string  `json:"fillColor,omitempty"`
}

// ============================================================
// Encode
// ============================================================

// Encode сериализует документ в JSON с отступом в два пробела.
func Encode(doc *Document) ([]byte, error) {
	objects := make([]wireObject, 0, len(doc.Objects))
	for _, s := range doc.Objects {
		obj, err := toWire(s)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	zoom := doc.Zoom
	pan := doc.PanOffset
	return json.MarshalIndent(wireDocument{
		Version:   Version,
		Objects:   &objects,
		Zoom:      &zoom,
		PanOffset: &pan,
	}, "", "  ")
}

func toWire(s models.Shape) (wireObject, error) {
	style := s.GetStyle()
	obj := wireObject{
		Type:      s.Kind(),
		ID:        s.ID(),
		Color:     &style.Color,
		LineWidth: &style.LineWidth,
		Fill:      &style.Fill,
		FillColor: &style.FillColor,
	}

	switch shape := s.(type) {
	case *models.Line:
		obj.Start = &shape.Start
		obj.End = &shape.End
	case *models.Rectangle:
		obj.X = &shape.Origin.X
		obj.Y = &shape.Origin.Y
		obj.Width = &shape.Width
		obj.Height = &shape.Height
	case *models.Circle:
		obj.Center = &shape.Center
		obj.Radius = &shape.Radius
	case *models.Polygon:
		obj.Points = shape.Points
	default:
		return wireObject{}, fmt.Errorf("encode: unsupported shape %T", s)
	}
	return obj, nil
}

// ============================================================
// Decode
// ============================================================

// Decode разбирает документ. Отсутствующие objects/zoom/panOffset
// заменяются на [] / 1.0 / {0,0}; нулевой zoom тоже считается отсутствующим.
// Пустые и повторяющиеся id заменяются новыми. Версия не проверяется.
func Decode(data []byte) (*Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := &Document{
		Version: wire.Version,
		Objects: []models.Shape{},
		Zoom:    1.0,
	}
	if wire.Zoom != nil && *wire.Zoom != 0 {
		doc.Zoom = *wire.Zoom
	}
	if wire.PanOffset != nil {
		doc.PanOffset = *wire.PanOffset
	}

	if wire.Objects != nil {
		// Выделение и удаление работают по ID, поэтому повторы получают новый.
		seen := make(map[string]bool, len(*wire.Objects))
		for i, obj := range *wire.Objects {
			if obj.ID == "" || seen[obj.ID] {
				obj.ID = models.NewID()
			}
			seen[obj.ID] = true

			s, err := fromWire(obj)
			if err != nil {
				return nil, fmt.Errorf("%w: object %d: %v", ErrInvalidDocument, i, err)
			}
			doc.Objects = append(doc.Objects, s)
		}
	}

	return doc, nil
}

func fromWire(obj wireObject) (models.Shape, error) {
	base := models.Base{ShapeID: obj.ID, Style: styleFromWire(obj)}

	switch obj.Type {
	case models.KindLine:
		if obj.Start == nil || obj.End == nil {
			return nil, errors.New("line requires start and end")
		}
		return &models.Line{Base: base, Start: *obj.Start, End: *obj.End}, nil

	case models.KindRectangle:
		if obj.X == nil || obj.Y == nil || obj.Width == nil || obj.Height == nil {
			return nil, errors.New("rectangle requires x, y, width and height")
		}
		return &models.Rectangle{
			Base:   base,
			Origin: models.Point{X: *obj.X, Y: *obj.Y},
			Width:  *obj.Width,
			Height: *obj.Height,
		}, nil

	case models.KindCircle:
		if obj.Center == nil || obj.Radius == nil {
			return nil, errors.New("circle requires center and radius")
		}
		if *obj.Radius < 0 {
			return nil, fmt.Errorf("negative radius %v", *obj.Radius)
		}
		return &models.Circle{Base: base, Center: *obj.Center, Radius: *obj.Radius}, nil

	case models.KindPolygon:
		if len(obj.Points) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(obj.Points))
		}
		return &models.Polygon{Base: base, Points: obj.Points}, nil
	}

	return nil, fmt.Errorf("unknown type %q", obj.Type)
}

// styleFromWire дополняет отсутствующие поля стилем по умолчанию.
func styleFromWire(obj wireObject) models.Style {
	style := models.DefaultStyle()
	if obj.Color != nil {
		style.Color = *obj.Color
	}
	if obj.LineWidth != nil {
		style.LineWidth = *obj.LineWidth
	}
	if obj.Fill != nil {
		style.Fill = *obj.Fill
	}
	if obj.FillColor != nil {
		style.FillColor = *obj.FillColor
	}
	return style
}
