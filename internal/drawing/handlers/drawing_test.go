package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tugisline/internal/drawing/repository"
	"tugisline/internal/drawing/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
)

const testDocument = `{
  "version": "1.0",
  "objects": [
    {"type": "line", "start": {"x": 0, "y": 0}, "end": {"x": 40, "y": 0}},
    {"type": "circle", "center": {"x": 100, "y": 100}, "radius": 20}
  ],
  "zoom": 2,
  "panOffset": {"x": 10, "y": 20}
}`

type testServer struct {
	app       *fiber.App
	exportDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	db, err := repository.OpenSQLite(filepath.Join(dir, "drawing.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "../../../migrations/001_init_drawings.sql"); err != nil {
		t.Fatalf("init db: %v", err)
	}

	exportDir := filepath.Join(dir, "exports")
	h := NewDrawingHandler(service.NewManager(service.DefaultOptions()), repo, service.NewFileStorage(exportDir), 64, 48)

	app := fiber.New()
	h.Register(app)
	return &testServer{app: app, exportDir: exportDir}
}

func (ts *testServer) do(t *testing.T, method, path, contentType string, body io.Reader) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (ts *testServer) doJSON(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	return ts.do(t, method, path, "application/json", strings.NewReader(body))
}

func decodeState(t *testing.T, resp *http.Response) service.State {
	t.Helper()
	defer resp.Body.Close()

	var st service.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/sessions", "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	return decodeState(t, resp).ID
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	resp := ts.do(t, http.MethodGet, "/sessions/"+id, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if st := decodeState(t, resp); st.Tool != service.ToolSelect || !st.ShowGrid || st.ZoomPercent != 100 {
		t.Fatalf("state = %+v", st)
	}

	if resp := ts.do(t, http.MethodDelete, "/sessions/"+id, "", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/sessions/"+id, "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodDelete, "/sessions/"+id, "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete = %d", resp.StatusCode)
	}
}

func TestCommandsDrawRectangle(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)
	path := "/sessions/" + id + "/commands"

	steps := []string{
		`{"name":"setTool","tool":"rectangle"}`,
		`{"name":"pointerDown","x":21,"y":19}`,
		`{"name":"pointerMove","x":79,"y":61}`,
		`{"name":"pointerUp","x":79,"y":61}`,
	}
	var st service.State
	for _, body := range steps {
		resp := ts.doJSON(t, http.MethodPost, path, body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", body, resp.StatusCode)
		}
		st = decodeState(t, resp)
	}

	if st.ObjectCount != 1 || st.Mode != "idle" {
		t.Fatalf("state = %+v", st)
	}
}

func TestCommandErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"empty body", "/sessions/" + id + "/commands", "", http.StatusBadRequest},
		{"bad json", "/sessions/" + id + "/commands", "{", http.StatusBadRequest},
		{"unknown command", "/sessions/" + id + "/commands", `{"name":"explode"}`, http.StatusBadRequest},
		{"unknown tool", "/sessions/" + id + "/commands", `{"name":"setTool","tool":"spline"}`, http.StatusBadRequest},
		{"missing style", "/sessions/" + id + "/commands", `{"name":"setProperties"}`, http.StatusBadRequest},
		{"unknown key", "/sessions/" + id + "/keys", `{"key":"q"}`, http.StatusBadRequest},
		{"missing session", "/sessions/nope/commands", `{"name":"zoomIn"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := ts.doJSON(t, http.MethodPost, tc.path, tc.body)
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	resp := ts.doJSON(t, http.MethodPost, "/sessions/"+id+"/keys", `{"key":"P"}`)
	if st := decodeState(t, resp); st.Tool != service.ToolPolygon {
		t.Fatalf("tool = %q", st.Tool)
	}

	resp = ts.doJSON(t, http.MethodPost, "/sessions/"+id+"/keys", `{"key":"+"}`)
	if st := decodeState(t, resp); st.ZoomPercent != 110 {
		t.Fatalf("zoom = %d%%", st.ZoomPercent)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	resp := ts.doJSON(t, http.MethodPut, "/sessions/"+id+"/document", testDocument)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	st := decodeState(t, resp)
	if st.ObjectCount != 2 || st.Zoom != 2 || st.PanOffset.X != 10 || st.PanOffset.Y != 20 {
		t.Fatalf("state = %+v", st)
	}

	resp = ts.do(t, http.MethodGet, "/sessions/"+id+"/document?name=plan", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="plan-`) || !strings.HasSuffix(cd, `.json"`) {
		t.Fatalf("content-disposition = %q", cd)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if objects, _ := doc["objects"].([]any); len(objects) != 2 {
		t.Fatalf("objects = %v", doc["objects"])
	}
}

func TestDocumentMultipartUpload(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "plan.json")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte(testDocument))
	writer.Close()

	resp := ts.do(t, http.MethodPut, "/sessions/"+id+"/document", writer.FormDataContentType(), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if st := decodeState(t, resp); st.ObjectCount != 2 {
		t.Fatalf("objects = %d", st.ObjectCount)
	}
}

func TestInvalidDocumentKeepsScene(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	ts.doJSON(t, http.MethodPut, "/sessions/"+id+"/document", testDocument).Body.Close()

	for _, body := range []string{`{"objects":[{"type":"spline"}]}`, `not json`, ``} {
		resp := ts.doJSON(t, http.MethodPut, "/sessions/"+id+"/document", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%q: status = %d", body, resp.StatusCode)
		}
	}

	st := decodeState(t, ts.do(t, http.MethodGet, "/sessions/"+id, "", nil))
	if st.ObjectCount != 2 || st.Zoom != 2 {
		t.Fatalf("state changed after failed load: %+v", st)
	}
}

func TestRenderPNGAndSVG(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)
	ts.doJSON(t, http.MethodPut, "/sessions/"+id+"/document", testDocument).Body.Close()

	resp := ts.do(t, http.MethodGet, "/sessions/"+id+"/png?width=32&height=24", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("png status = %d, type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Fatalf("bounds = %v", b)
	}

	resp = ts.do(t, http.MethodGet, "/sessions/"+id+"/svg", "", nil)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	svg := string(data)
	if !strings.Contains(svg, `width="64" height="48"`) || !strings.Contains(svg, `translate(10 20) scale(2)`) {
		t.Fatalf("svg = %s", svg)
	}

	if resp := ts.do(t, http.MethodGet, "/sessions/"+id+"/png?width=0", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero width status = %d", resp.StatusCode)
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)
	ts.doJSON(t, http.MethodPut, "/sessions/"+id+"/document", testDocument).Body.Close()

	resp := ts.doJSON(t, http.MethodPost, "/sessions/"+id+"/exports", `{"name":"plan"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(out["filename"], "plan-") {
		t.Fatalf("filename = %q", out["filename"])
	}
	for _, key := range []string{"json", "png"} {
		if filepath.Dir(out[key]) != filepath.Join(ts.exportDir, id) {
			t.Fatalf("%s path = %q", key, out[key])
		}
		if _, err := os.Stat(out[key]); err != nil {
			t.Fatalf("%s export missing: %v", key, err)
		}
	}
}

func TestDrawingLibrary(t *testing.T) {
	ts := newTestServer(t)
	source := ts.createSession(t)
	ts.doJSON(t, http.MethodPut, "/sessions/"+source+"/document", testDocument).Body.Close()

	resp := ts.doJSON(t, http.MethodPost, "/sessions/"+source+"/drawings", `{"name":"plan"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("store status = %d", resp.StatusCode)
	}
	var stored struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ObjectCount int    `json:"object_count"`
	}
	json.NewDecoder(resp.Body).Decode(&stored)
	resp.Body.Close()
	if stored.ID == "" || stored.Name != "plan" || stored.ObjectCount != 2 {
		t.Fatalf("stored = %+v", stored)
	}

	resp = ts.do(t, http.MethodGet, "/drawings", "", nil)
	var list struct {
		Drawings []struct {
			ID string `json:"id"`
		} `json:"drawings"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Drawings) != 1 || list.Drawings[0].ID != stored.ID {
		t.Fatalf("list = %+v", list)
	}

	target := ts.createSession(t)
	resp = ts.do(t, http.MethodPost, "/sessions/"+target+"/drawings/"+stored.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open status = %d", resp.StatusCode)
	}
	if st := decodeState(t, resp); st.ObjectCount != 2 || st.Zoom != 2 {
		t.Fatalf("opened state = %+v", st)
	}

	// Сохранение поверх: очищенная сцена заменяет документ.
	ts.doJSON(t, http.MethodPost, "/sessions/"+source+"/commands", `{"name":"clear"}`).Body.Close()
	resp = ts.do(t, http.MethodPut, "/sessions/"+source+"/drawings/"+stored.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	var saved struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ObjectCount int    `json:"object_count"`
	}
	json.NewDecoder(resp.Body).Decode(&saved)
	resp.Body.Close()
	if saved.ID != stored.ID || saved.Name != "plan" || saved.ObjectCount != 0 {
		t.Fatalf("saved = %+v", saved)
	}
	if resp := ts.do(t, http.MethodPut, "/sessions/"+source+"/drawings/missing", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("save missing = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPut, "/sessions/nope/drawings/"+stored.ID, "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("save from missing session = %d", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/drawings/"+stored.ID, "", nil)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(data), `"objects": []`) {
		t.Fatalf("document = %s", data)
	}

	if resp := ts.do(t, http.MethodDelete, "/drawings/"+stored.ID, "", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/drawings/"+stored.ID, "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPost, "/sessions/"+target+"/drawings/"+stored.ID, "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("open deleted = %d", resp.StatusCode)
	}
}
