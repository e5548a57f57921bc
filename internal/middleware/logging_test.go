package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func withCapturedLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLoggingMiddlewarePassesResponseThrough(t *testing.T) {
	logs := withCapturedLogs(t, slog.LevelInfo)

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p-1"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/participants", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if rec.Body.String() != `{"id":"p-1"}` {
		t.Errorf("response body altered by middleware: %s", rec.Body.String())
	}

	line := logs.String()
	if !strings.Contains(line, `"msg":"request served"`) {
		t.Errorf("expected a request served log line, got: %s", line)
	}
	if !strings.Contains(line, `"status":201`) {
		t.Errorf("expected the recorded status in the log line, got: %s", line)
	}
	if strings.Contains(line, "request_body") {
		t.Errorf("request body must not be logged at info level: %s", line)
	}
}

func TestLoggingMiddlewareLevelFollowsStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
		msg    string
	}{
		{http.StatusOK, "INFO", "request served"},
		{http.StatusNotFound, "WARN", "request rejected"},
		{http.StatusInternalServerError, "ERROR", "request failed"},
	}
	for _, tc := range cases {
		logs := withCapturedLogs(t, slog.LevelInfo)

		handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))

		line := logs.String()
		if !strings.Contains(line, `"level":"`+tc.level+`"`) {
			t.Errorf("status %d: expected level %s, got: %s", tc.status, tc.level, line)
		}
		if !strings.Contains(line, `"msg":"`+tc.msg+`"`) {
			t.Errorf("status %d: expected message %q, got: %s", tc.status, tc.msg, line)
		}
	}
}

func TestLoggingMiddlewareDebugCapturesBodies(t *testing.T) {
	logs := withCapturedLogs(t, slog.LevelDebug)

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"override":true}` {
			t.Errorf("handler received altered request body: %s", body)
		}
		w.Write([]byte(`{"current_phase":"training"}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants/p-1/progress?dry=1", strings.NewReader(`{"override":true}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := logs.String()
	for _, want := range []string{"request_body", "response_body", `"query":"dry=1"`} {
		if !strings.Contains(line, want) {
			t.Errorf("debug log line is missing %s: %s", want, line)
		}
	}
}
