package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/centerbox/internal/config"
	"github.com/matzehuels/centerbox/pkg/errors"
	pkgio "github.com/matzehuels/centerbox/pkg/io"
	"github.com/matzehuels/centerbox/pkg/observability"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s, err := New(pipeline.NewRunner(nil, nil, logger), cfg, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postBoxes(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/boxes", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/boxes: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Errorf("body = %v, want a version field", body)
	}
}

func TestPostBoxes(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp := postBoxes(t, ts, `{"text":"to be or not to be","width":12,"max_lines":4,"skip_blank_lines":true,"best":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	doc, err := pkgio.ReadJSON(resp.Body)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if doc.ID == "" || doc.Text != "to be or not to be" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Width != 12 || doc.MaxLines != 4 || doc.Metric != "dispersion" {
		t.Errorf("doc size/metric = %d/%d/%q", doc.Width, doc.MaxLines, doc.Metric)
	}
	if len(doc.Boxes) != 1 || doc.Boxes[0].Flat != "  to be or     not to        be     " {
		t.Errorf("doc.Boxes = %+v", doc.Boxes)
	}

	boxes, err := doc.Decode()
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(boxes) != 1 || boxes[0].Len() != 3 || boxes[0].WordsConsumed() != 6 {
		t.Errorf("decoded %d boxes", len(boxes))
	}
}

func TestPostBoxesPreset(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp := postBoxes(t, ts, `{"text":"hi","preset":"extended","max_lines":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	doc, err := pkgio.ReadJSON(resp.Body)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if doc.Width != 26 || doc.MaxLines != 1 {
		t.Errorf("size = %dx%d, want 26x1", doc.Width, doc.MaxLines)
	}
	if len(doc.Boxes) != 1 {
		t.Errorf("boxes = %d, want 1", len(doc.Boxes))
	}
}

func TestPostBoxesNoneFound(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp := postBoxes(t, ts, `{"text":"a b","width":4,"max_lines":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	doc, err := pkgio.ReadJSON(resp.Body)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if len(doc.Boxes) != 0 {
		t.Errorf("boxes = %d, want 0", len(doc.Boxes))
	}
}

func TestPostBoxesErrors(t *testing.T) {
	ts := newTestServer(t, config.Default())

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{"text":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"text":"hi","colour":"red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown preset", `{"text":"hi","preset":"tiny"}`, http.StatusBadRequest, errors.ErrCodeInvalidPreset},
		{"negative width", `{"text":"hi","width":-2}`, http.StatusBadRequest, errors.ErrCodeInvalidDimensions},
		{"zero width", `{"text":"hi","width":0}`, http.StatusBadRequest, errors.ErrCodeInvalidDimensions},
		{"zero lines", `{"text":"hi","max_lines":0}`, http.StatusBadRequest, errors.ErrCodeInvalidDimensions},
		{"unknown metric", `{"text":"hi","best":true,"metric":"length"}`, http.StatusBadRequest, errors.ErrCodeInvalidMetric},
		{"control character", `{"text":"a\u0007b"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postBoxes(t, ts, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Code, tt.code, body.Error)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp, err := http.Get(ts.URL + "/v1/boxes")
	if err != nil {
		t.Fatalf("GET /v1/boxes: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)

	ts := newTestServer(t, config.Default())
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	// OnResponse runs after the response is flushed to the client.
	deadline := time.Now().Add(5 * time.Second)
	for {
		requests, statuses := hooks.snapshot()
		if len(statuses) == 1 {
			if requests != 1 || statuses[0] != http.StatusOK {
				t.Errorf("hooks saw %d requests, statuses %v", requests, statuses)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("hooks saw %d requests, statuses %v", requests, statuses)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewInvalidTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Timeout = "soon"
	if _, err := New(pipeline.NewRunner(nil, nil, nil), cfg, nil); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s, err := New(pipeline.NewRunner(nil, nil, logger), config.Default(), logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests int
	statuses []int
}

func (h *recordingHooks) OnRequest(ctx context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHooks) snapshot() (int, []int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests, append([]int(nil), h.statuses...)
}
