package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// logExtras collects per-request facts that inner middleware learns after
// the access logger has already run. The logger allocates one per request
// and emits whatever got filled in.
type logExtras struct {
	authReason string
	adminID    int64
}

const logExtrasKey contextKey = "log_extras"

// Logger returns an HTTP middleware that writes one structured access log
// line per request: method, path, status, size, duration, request ID, and
// remote address. When the auth gate ran, the line also carries the
// rejection reason or the acting admin's id, so admin actions stay
// attributable without a second log line.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			extras := &logExtras{}
			r = r.WithContext(context.WithValue(r.Context(), logExtrasKey, extras))
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if ww.status >= 500 {
				level = slog.LevelError
			} else if ww.status >= 400 {
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"duration_ms", float64(duration.Microseconds()) / 1000.0,
				"bytes", ww.bytes,
				"request_id", GetRequestID(r.Context()),
				"remote_addr", r.RemoteAddr,
			}
			if extras.authReason != "" {
				attrs = append(attrs, "auth_reason", extras.authReason)
			}
			if extras.adminID != 0 {
				attrs = append(attrs, "admin_id", extras.adminID)
			}

			logger.Log(r.Context(), level, "request", attrs...)
		})
	}
}

// setAuthReason records why the gate rejected the request. No-op when the
// logger is not in the chain (direct handler tests).
func setAuthReason(ctx context.Context, reason string) {
	if e, ok := ctx.Value(logExtrasKey).(*logExtras); ok {
		e.authReason = reason
	}
}

// setAdminID records which admin passed the gate.
func setAdminID(ctx context.Context, id int64) {
	if e, ok := ctx.Value(logExtrasKey).(*logExtras); ok {
		e.adminID = id
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code and
// bytes written for logging purposes.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter, required for http.Flusher
// and other interface assertions through middleware chains.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
