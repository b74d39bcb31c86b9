package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// captureLogs routes the default logger into a buffer of JSON lines for
// the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// lastRecord decodes the final log line in buf.
func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &rec); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return rec
}

func TestLoggerLevelByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int // 0 writes the body without WriteHeader
		body      string
		wantLevel string
		wantCode  int
	}{
		{"ok with body", http.StatusOK, "hello", "INFO", 200},
		{"implicit ok", 0, "<html></html>", "INFO", 200},
		{"created empty", http.StatusCreated, "", "INFO", 201},
		{"redirect", http.StatusMovedPermanently, "", "INFO", 301},
		{"not modified", http.StatusNotModified, "", "INFO", 304},
		{"bad request", http.StatusBadRequest, `{"error":"bad"}`, "WARN", 400},
		{"not found", http.StatusNotFound, "", "WARN", 404},
		{"rate limited", http.StatusTooManyRequests, "", "WARN", 429},
		{"server error", http.StatusInternalServerError, "Export failed.", "ERROR", 500},
		{"bad gateway", http.StatusBadGateway, "", "ERROR", 502},
		{"unavailable", http.StatusServiceUnavailable, "", "ERROR", 503},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/api/export", nil))

			rec := lastRecord(t, logs)
			if rec["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %s", rec["level"], tt.wantLevel)
			}
			if rec["status"] != float64(tt.wantCode) {
				t.Errorf("status attr: got %v, want %d", rec["status"], tt.wantCode)
			}
			if rec["bytes"] != float64(len(tt.body)) {
				t.Errorf("bytes attr: got %v, want %d", rec["bytes"], len(tt.body))
			}
			if rec["method"] != http.MethodPost || rec["path"] != "/admin/api/export" {
				t.Errorf("method/path: got %v %v", rec["method"], rec["path"])
			}
			if rr.Code != tt.wantCode {
				t.Errorf("response status: got %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestLoggerCountsAcrossWrites(t *testing.T) {
	logs := captureLogs(t)
	page := []byte("<!doctype html><h1>Alpha</h1>")
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(page[:10])
		w.Write(page[10:])
		w.WriteHeader(http.StatusInternalServerError) // too late, 200 already sent
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/project/alpha", nil))

	rec := lastRecord(t, logs)
	if rec["bytes"] != float64(len(page)) {
		t.Errorf("bytes attr: got %v, want %d", rec["bytes"], len(page))
	}
	if rec["status"] != float64(200) || rec["level"] != "INFO" {
		t.Errorf("first status should win: got %v at %v", rec["status"], rec["level"])
	}
}

func TestResponseWriterUnwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("chunk"))
		if err := http.NewResponseController(w).Flush(); err != nil {
			t.Errorf("Flush through wrapper: %v", err)
		}
	}))
	captureLogs(t)

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !rr.Flushed {
		t.Error("flush should reach the underlying writer")
	}
}
