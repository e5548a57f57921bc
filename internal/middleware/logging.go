package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder wraps http.ResponseWriter to remember the status code
// and, when body capture is on, the response payload
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
	body    *bytes.Buffer
}

func (rec *statusRecorder) WriteHeader(status int) {
	if !rec.written {
		rec.status = status
		rec.written = true
		rec.ResponseWriter.WriteHeader(status)
	}
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.written {
		rec.WriteHeader(http.StatusOK)
	}
	if rec.body != nil {
		rec.body.Write(b)
	}
	return rec.ResponseWriter.Write(b)
}

// LoggingMiddleware logs every API request once it has been served.
// The level follows the outcome: 5xx logs as error, 4xx as warning and
// everything else as info. With the logger at debug, request and
// response bodies and query parameters are included as well.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		debug := slog.Default().Enabled(r.Context(), slog.LevelDebug)

		var requestBody []byte
		if debug && r.Body != nil {
			requestBody, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		rec := &statusRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		if debug {
			rec.body = &bytes.Buffer{}
		}

		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		message := "request served"
		switch {
		case rec.status >= 500:
			level = slog.LevelError
			message = "request failed"
		case rec.status >= 400:
			level = slog.LevelWarn
			message = "request rejected"
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}
		if debug {
			if len(r.URL.RawQuery) > 0 {
				attrs = append(attrs, "query", r.URL.RawQuery)
			}
			if len(requestBody) > 0 {
				attrs = append(attrs, "request_body", string(requestBody))
			}
			if rec.body.Len() > 0 {
				attrs = append(attrs, "response_body", rec.body.String())
			}
		}

		slog.Log(r.Context(), level, message, attrs...)
	})
}
