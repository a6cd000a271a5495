package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"tugisline/internal/drawing/document"
	"tugisline/internal/drawing/mapper"
	"tugisline/internal/drawing/repository"
	"tugisline/internal/drawing/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Drawing Handler
// ============================================================

// maxCanvas ограничивает размер растра, запрошенного через query.
const maxCanvas = 8192

type DrawingHandler struct {
	manager    *service.Manager
	repo       *repository.Repository
	storage    *service.FileStorage
	renderer   *mapper.Renderer
	rasterizer *mapper.Rasterizer
	width      int
	height     int
}

func NewDrawingHandler(manager *service.Manager, repo *repository.Repository, storage *service.FileStorage, width, height int) *DrawingHandler {
	return &DrawingHandler{
		manager:    manager,
		repo:       repo,
		storage:    storage,
		renderer:   mapper.NewRenderer(),
		rasterizer: mapper.NewRasterizer(),
		width:      width,
		height:     height,
	}
}

type keyRequest struct {
	Key string `json:"key"`
}

type nameRequest struct {
	Name string `json:"name"`
}

// Register вешает маршруты сервиса на router.
func (h *DrawingHandler) Register(router fiber.Router) {
	router.Post("/sessions", h.CreateSession)
	router.Get("/sessions/:id", h.GetSession)
	router.Delete("/sessions/:id", h.CloseSession)
	router.Post("/sessions/:id/commands", h.Command)
	router.Post("/sessions/:id/keys", h.Key)
	router.Get("/sessions/:id/document", h.GetDocument)
	router.Put("/sessions/:id/document", h.PutDocument)
	router.Get("/sessions/:id/png", h.GetPNG)
	router.Get("/sessions/:id/svg", h.GetSVG)
	router.Post("/sessions/:id/exports", h.Export)
	router.Post("/sessions/:id/drawings", h.StoreDrawing)
	router.Post("/sessions/:id/drawings/:drawingId", h.OpenDrawing)
	router.Put("/sessions/:id/drawings/:drawingId", h.SaveDrawing)

	router.Get("/drawings", h.ListDrawings)
	router.Get("/drawings/:drawingId", h.GetDrawing)
	router.Delete("/drawings/:drawingId", h.DeleteDrawing)
}

// ============================================================
// Sessions
// ============================================================

// CreateSession открывает пустую сцену.
func (h *DrawingHandler) CreateSession(c fiber.Ctx) error {
	id := h.manager.Create()
	log.Printf("[DRAWING] Session created: %s", id)

	state, err := h.state(id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(state)
}

// GetSession возвращает снимок состояния сессии.
func (h *DrawingHandler) GetSession(c fiber.Ctx) error {
	state, err := h.state(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *DrawingHandler) CloseSession(c fiber.Ctx) error {
	id := c.Params("id")
	if !h.manager.Close(id) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	log.Printf("[DRAWING] Session closed: %s", id)
	return c.SendStatus(http.StatusNoContent)
}

// Command применяет одну команду интерфейса.
func (h *DrawingHandler) Command(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var cmd service.Command
	if err := json.Unmarshal(c.Body(), &cmd); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	return h.dispatch(c, cmd)
}

// Key переводит клавишу в команду и применяет ее.
func (h *DrawingHandler) Key(c fiber.Ctx) error {
	var req keyRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	cmd, ok := service.KeyCommand(req.Key)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown key %q", req.Key)})
	}
	return h.dispatch(c, cmd)
}

// ============================================================
// Document
// ============================================================

// GetDocument отдает документ сессии как вложение <name>-<millis>.json.
func (h *DrawingHandler) GetDocument(c fiber.Ctx) error {
	name := c.Query("name", document.DefaultName)

	var (
		data     []byte
		filename string
	)
	err := h.manager.Do(c.Params("id"), func(s *service.Session) error {
		var err error
		data, filename, err = s.Save(name)
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// PutDocument загружает документ: сырой JSON или multipart поле file.
func (h *DrawingHandler) PutDocument(c fiber.Ctx) error {
	data, err := readDocument(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id := c.Params("id")
	var state service.State
	err = h.manager.Do(id, func(s *service.Session) error {
		if err := s.Load(data); err != nil {
			return err
		}
		state = s.State()
		return nil
	})
	if err != nil {
		log.Printf("[DRAWING] Load error for %s: %v", id, err)
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// ============================================================
// Rendering
// ============================================================

// GetPNG перерисовывает сцену в PNG.
func (h *DrawingHandler) GetPNG(c fiber.Ctx) error {
	width, height, err := h.canvasSize(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	frame, err := h.frame(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	if err := h.rasterizer.RenderPNG(&buf, frame, width, height); err != nil {
		log.Printf("[DRAWING] Raster error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

// GetSVG выгружает сцену в SVG.
func (h *DrawingHandler) GetSVG(c fiber.Ctx) error {
	width, height, err := h.canvasSize(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	frame, err := h.frame(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	svg, err := h.renderer.Render(frame, float64(width), float64(height))
	if err != nil {
		log.Printf("[DRAWING] SVG error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// Export пишет JSON и PNG сессии в каталог выгрузок.
func (h *DrawingHandler) Export(c fiber.Ctx) error {
	name := requestName(c)
	id := c.Params("id")

	var (
		data     []byte
		filename string
		frame    service.Frame
	)
	err := h.manager.Do(id, func(s *service.Session) error {
		var err error
		data, filename, err = s.Save(name)
		frame = s.Frame()
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	var png bytes.Buffer
	if err := h.rasterizer.RenderPNG(&png, frame, h.width, h.height); err != nil {
		log.Printf("[DRAWING] Raster error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}

	jsonPath := h.storage.ExportPath(id, filename, ".json")
	if err := h.storage.SaveFile(id, jsonPath, data); err != nil {
		log.Printf("[DRAWING] save json export error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}
	pngPath := h.storage.ExportPath(id, filename, ".png")
	if err := h.storage.SaveFile(id, pngPath, png.Bytes()); err != nil {
		log.Printf("[DRAWING] save png export error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"filename": filename,
		"json":     jsonPath,
		"png":      pngPath,
	})
}

// ============================================================
// Library
// ============================================================

// StoreDrawing кладет текущий документ сессии в библиотеку.
func (h *DrawingHandler) StoreDrawing(c fiber.Ctx) error {
	name := requestName(c)

	var (
		data  []byte
		count int
	)
	err := h.manager.Do(c.Params("id"), func(s *service.Session) error {
		var err error
		data, _, err = s.Save(name)
		count = s.Scene().Len()
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	drawing, err := h.repo.Create(context.Background(), name, data, count)
	if err != nil {
		log.Printf("[DRAWING] store error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store drawing"})
	}
	log.Printf("[DRAWING] Stored %s (%s), objects=%d", drawing.ID, drawing.Name, count)
	return c.Status(http.StatusCreated).JSON(drawing)
}

// OpenDrawing загружает сохраненный рисунок в сессию.
func (h *DrawingHandler) OpenDrawing(c fiber.Ctx) error {
	drawing, err := h.repo.GetByID(context.Background(), c.Params("drawingId"))
	if err != nil {
		return h.fail(c, err)
	}

	var state service.State
	err = h.manager.Do(c.Params("id"), func(s *service.Session) error {
		if err := s.Load([]byte(drawing.Document)); err != nil {
			return err
		}
		state = s.State()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// SaveDrawing перезаписывает сохраненный рисунок документом сессии.
func (h *DrawingHandler) SaveDrawing(c fiber.Ctx) error {
	id := c.Params("drawingId")

	var (
		data  []byte
		count int
	)
	err := h.manager.Do(c.Params("id"), func(s *service.Session) error {
		var err error
		data, _, err = s.Save("")
		count = s.Scene().Len()
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	drawing, err := h.repo.Update(context.Background(), id, data, count)
	if errors.Is(err, repository.ErrNotFound) {
		return h.fail(c, err)
	}
	if err != nil {
		log.Printf("[DRAWING] update error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save drawing"})
	}
	log.Printf("[DRAWING] Saved %s, objects=%d", drawing.ID, count)
	return c.JSON(drawing)
}

func (h *DrawingHandler) ListDrawings(c fiber.Ctx) error {
	drawings, err := h.repo.List(context.Background())
	if err != nil {
		log.Printf("[DRAWING] list error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list drawings"})
	}
	return c.JSON(fiber.Map{"drawings": drawings})
}

// GetDrawing отдает сохраненный документ как есть.
func (h *DrawingHandler) GetDrawing(c fiber.Ctx) error {
	drawing, err := h.repo.GetByID(context.Background(), c.Params("drawingId"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.SendString(drawing.Document)
}

func (h *DrawingHandler) DeleteDrawing(c fiber.Ctx) error {
	if err := h.repo.Delete(context.Background(), c.Params("drawingId")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func (h *DrawingHandler) dispatch(c fiber.Ctx, cmd service.Command) error {
	var state service.State
	err := h.manager.Do(c.Params("id"), func(s *service.Session) error {
		if err := s.Dispatch(cmd); err != nil {
			return err
		}
		state = s.State()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *DrawingHandler) state(id string) (service.State, error) {
	var state service.State
	err := h.manager.Do(id, func(s *service.Session) error {
		state = s.State()
		return nil
	})
	return state, err
}

func (h *DrawingHandler) frame(id string) (service.Frame, error) {
	var frame service.Frame
	err := h.manager.Do(id, func(s *service.Session) error {
		frame = s.Frame()
		return nil
	})
	return frame, err
}

// fail переводит ошибку слоя сервиса в HTTP статус.
func (h *DrawingHandler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "drawing not found"})
	case errors.Is(err, document.ErrInvalidDocument):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownCommand):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	// Остальные ошибки Dispatch - неверные аргументы команды.
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// canvasSize читает width/height из query, по умолчанию размер холста из конфига.
func (h *DrawingHandler) canvasSize(c fiber.Ctx) (int, int, error) {
	width, err := queryInt(c, "width", h.width)
	if err != nil {
		return 0, 0, err
	}
	height, err := queryInt(c, "height", h.height)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func queryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxCanvas {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// requestName берет name из JSON тела или query.
func requestName(c fiber.Ctx) string {
	var req nameRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}
	if req.Name == "" {
		req.Name = c.Query("name")
	}
	if req.Name == "" {
		return document.DefaultName
	}
	return req.Name
}

func readDocument(c fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		if len(c.Body()) == 0 {
			return nil, errors.New("empty body")
		}
		return c.Body(), nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read file")
	}
	return data, nil
}
