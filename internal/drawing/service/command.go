package service

import (
	"errors"
	"fmt"

	"tugisline/internal/drawing/models"
)

// ============================================================
// Commands
// ============================================================

// Имена команд: каждое действие интерфейса - одна операция сессии.
const (
	CmdSetTool       = "setTool"
	CmdPointerDown   = "pointerDown"
	CmdPointerMove   = "pointerMove"
	CmdPointerUp     = "pointerUp"
	CmdDoubleClick   = "doubleClick"
	CmdWheel         = "wheel"
	CmdZoomIn        = "zoomIn"
	CmdZoomOut       = "zoomOut"
	CmdZoomReset     = "zoomReset"
	CmdZoomBy        = "zoomBy"
	CmdDelete        = "delete"
	CmdClear         = "clear"
	CmdCancel        = "cancel"
	CmdSetProperties = "setProperties"
	CmdSetGrid       = "setGrid"
	CmdSetSnap       = "setSnap"
)

var ErrUnknownCommand = errors.New("unknown command")

type Command struct {
	Name    string        `json:"name"`
	X       float64       `json:"x,omitempty"`
	Y       float64       `json:"y,omitempty"`
	Button  Button        `json:"button,omitempty"`
	Shift   bool          `json:"shift,omitempty"`
	DeltaY  float64       `json:"deltaY,omitempty"`
	Factor  float64       `json:"factor,omitempty"`
	Tool    Tool          `json:"tool,omitempty"`
	Style   *models.Style `json:"style,omitempty"`
	Enabled bool          `json:"enabled,omitempty"`
}

func (c Command) point() models.Point {
	return models.Point{X: c.X, Y: c.Y}
}

// Dispatch применяет команду к сессии.
func (s *Session) Dispatch(cmd Command) error {
	switch cmd.Name {
	case CmdSetTool:
		return s.SetTool(cmd.Tool)
	case CmdPointerDown:
		s.PointerDown(cmd.point(), cmd.Button, cmd.Shift)
	case CmdPointerMove:
		s.PointerMove(cmd.point())
	case CmdPointerUp:
		s.PointerUp(cmd.point())
	case CmdDoubleClick:
		s.DoubleClick()
	case CmdWheel:
		s.Wheel(cmd.DeltaY)
	case CmdZoomIn:
		s.ZoomIn()
	case CmdZoomOut:
		s.ZoomOut()
	case CmdZoomReset:
		s.ZoomReset()
	case CmdZoomBy:
		s.ZoomBy(cmd.Factor)
	case CmdDelete:
		s.DeleteSelected()
	case CmdClear:
		s.ClearAll()
	case CmdCancel:
		s.Cancel()
	case CmdSetProperties:
		if cmd.Style == nil {
			return errors.New("setProperties requires style")
		}
		s.SetProperties(*cmd.Style)
	case CmdSetGrid:
		s.SetGrid(cmd.Enabled)
	case CmdSetSnap:
		s.SetSnap(cmd.Enabled)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	return nil
}

// ============================================================
// Keyboard shortcuts
// ============================================================

// KeyCommand переводит клавишу в команду.
func KeyCommand(key string) (Command, bool) {
	switch key {
	case "s", "S":
		return Command{Name: CmdSetTool, Tool: ToolSelect}, true
	case "l", "L":
		return Command{Name: CmdSetTool, Tool: ToolLine}, true
	case "r", "R":
		return Command{Name: CmdSetTool, Tool: ToolRectangle}, true
	case "c", "C":
		return Command{Name: CmdSetTool, Tool: ToolCircle}, true
	case "p", "P":
		return Command{Name: CmdSetTool, Tool: ToolPolygon}, true
	case "Delete":
		return Command{Name: CmdDelete}, true
	case "+", "=":
		return Command{Name: CmdZoomIn}, true
	case "-", "_":
		return Command{Name: CmdZoomOut}, true
	case "0":
		return Command{Name: CmdZoomReset}, true
	case "Escape":
		return Command{Name: CmdCancel}, true
	}
	return Command{}, false
}
