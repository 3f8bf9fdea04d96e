package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/voronoi/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	runner := pipeline.NewRunner(nil, nil, nil)
	runner.Limits = pipeline.Limits{MaxWidth: 200, MaxHeight: 200, MaxCells: 50}
	s, err := New(Config{TempDir: dir}, runner, log.New(io.Discard), opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s, dir
}

func validForm() url.Values {
	return url.Values{
		"colorList1": {"red"},
		"colorList2": {"green"},
		"colorList3": {"blue"},
		"width":      {"20"},
		"height":     {"10"},
		"num_cells":  {"5"},
	}
}

func post(t *testing.T, s *Server, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate_diagram", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir has %d leftover files", len(entries))
	}
}

func TestFormPages(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/", "/generate_diagram"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
		body := rec.Body.String()
		for _, field := range []string{"colorList1", "colorList2", "colorList3", "width", "height", "num_cells", "chosen_filename", "blend_multiplier"} {
			if !strings.Contains(body, `name="`+field+`"`) {
				t.Errorf("GET %s form is missing field %s", path, field)
			}
		}
	}
}

func TestGenerateReturnsPNG(t *testing.T) {
	s, dir := newTestServer(t)
	rec := post(t, s, validForm())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if rec.Header().Get("X-Voronoi-Seed") == "" {
		t.Error("missing X-Voronoi-Seed header")
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("Content-Disposition = %q, want none without chosen_filename", cd)
	}

	img, err := imaging.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("image is %v, want 20x10", img.Bounds())
	}
	assertEmptyDir(t, dir)
}

func TestGenerateFilenameAndSeed(t *testing.T) {
	s, dir := newTestServer(t)
	form := validForm()
	form.Set("chosen_filename", "my cells")
	form.Set("seed", "31")
	form.Set("blend_multiplier", "12")

	a := post(t, s, form)
	b := post(t, s, form)
	if a.Code != http.StatusOK || b.Code != http.StatusOK {
		t.Fatalf("status = %d, %d", a.Code, b.Code)
	}
	if cd := a.Header().Get("Content-Disposition"); cd != `inline; filename="my cells.png"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if seed := a.Header().Get("X-Voronoi-Seed"); seed != "31" {
		t.Errorf("X-Voronoi-Seed = %q, want 31", seed)
	}
	if !bytes.Equal(a.Body.Bytes(), b.Body.Bytes()) {
		t.Error("same seed should return identical images")
	}
	assertEmptyDir(t, dir)
}

func TestGenerateBadRequests(t *testing.T) {
	s, dir := newTestServer(t)
	tests := []struct {
		name   string
		modify func(url.Values)
		want   int
	}{
		{"missing width", func(v url.Values) { v.Del("width") }, http.StatusBadRequest},
		{"non-integer height", func(v url.Values) { v.Set("height", "ten") }, http.StatusBadRequest},
		{"float cells", func(v url.Values) { v.Set("num_cells", "2.5") }, http.StatusBadRequest},
		{"negative cells", func(v url.Values) { v.Set("num_cells", "-1") }, http.StatusBadRequest},
		{"zero width", func(v url.Values) { v.Set("width", "0") }, http.StatusBadRequest},
		{"missing color", func(v url.Values) { v.Del("colorList2") }, http.StatusBadRequest},
		{"bad blend", func(v url.Values) { v.Set("blend_multiplier", "0") }, http.StatusBadRequest},
		{"bad seed", func(v url.Values) { v.Set("seed", "-4") }, http.StatusBadRequest},
		{"traversal filename", func(v url.Values) { v.Set("chosen_filename", "../x") }, http.StatusBadRequest},
		{"over limit", func(v url.Values) { v.Set("width", "5000") }, http.StatusBadRequest},
		{"unknown color", func(v url.Values) { v.Set("colorList3", "blurple") }, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.modify(form)
			rec := post(t, s, form)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get("X-Voronoi-Seed") != "" {
				t.Error("error responses should not carry a seed")
			}
			assertEmptyDir(t, dir)
		})
	}
}

func TestGenerateTempDirFailure(t *testing.T) {
	s, dir := newTestServer(t)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	rec := post(t, s, validForm())
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("failed responses should not offer a download")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestMetricsRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "voronoi_up 1\n")
	})
	s, _ = newTestServer(t, WithMetrics(metrics))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "voronoi_up") {
		t.Errorf("metrics enabled: status = %d, body = %q", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/generate_diagram", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
