package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/calong-tick/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const (
	filtered        = "[FILTERED]"
	maxLoggedBody   = 4 << 10
	truncatedSuffix = "...[TRUNCATED]"
)

// sensitiveFields are matched as substrings of lower-cased JSON keys and
// header names. "pin" covers the employee credential in every payload.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"pin",
}

// quietPaths are logged without bodies.
var quietPaths = []string{"/api/health", "/api/ping", "/swagger/", "/openapi.yml"}

// LoggingMiddleware logs every request and response through the request
// scoped logger so entries carry the trace id.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lg := logger.From(r.Context())
			if lg == nil {
				lg = base
			}
			lg = lg.With("request_id", middleware.GetReqID(r.Context()))

			quiet := isQuiet(r.URL.Path)
			logRequest(lg, r, quiet)

			ww := &responseWriter{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(ww, r)

			logResponse(lg, ww, time.Since(start), quiet)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status and body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.body.Len() < maxLoggedBody {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

func logRequest(lg *slog.Logger, r *http.Request, quiet bool) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
	}

	if !quiet && r.Body != nil {
		bodyBytes, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		attrs = append(attrs, "body", filterSensitiveBody(bodyBytes))
	}

	lg.Info("incoming request", attrs...)
}

func logResponse(lg *slog.Logger, rw *responseWriter, duration time.Duration, quiet bool) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	attrs := []any{
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	}
	if !quiet {
		attrs = append(attrs, "body", filterSensitiveBody(rw.body.Bytes()))
	}

	lg.Log(context.Background(), level, "response", attrs...)
}

func isQuiet(path string) bool {
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return truncate(string(body))
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return truncate(string(out))
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
				continue
			}
			out[key] = filterSensitiveJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterSensitiveJSON(item)
		}
		return out
	default:
		return v
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + truncatedSuffix
}
