package middle

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ecompay/checkout/infra/opensearch"
	"github.com/google/uuid"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// LifecycleLoggingMiddleware records checkout lifecycle requests to OpenSearch
func LifecycleLoggingMiddleware(osLogger *opensearch.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methodID, operation := parseLifecyclePath(r.URL.Path)
			if methodID == "" {
				next.ServeHTTP(w, r)
				return
			}

			requestID := uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			entry := opensearch.LifecycleLog{
				Timestamp:        rw.startTime,
				Method:           methodID,
				Operation:        operation,
				RequestID:        requestID,
				ProcessingTimeMs: time.Since(rw.startTime).Milliseconds(),
				Success:          rw.statusCode < 400,
			}

			// Log asynchronously to avoid blocking the response
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = osLogger.LogLifecycleEntry(ctx, entry)
			}()
		})
	}
}

// parseLifecyclePath extracts the method ID and operation from paths of the
// form /v1/checkout/{methodID}/{operation}.
func parseLifecyclePath(path string) (string, string) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) != 4 || segments[0] != "v1" || segments[1] != "checkout" {
		return "", ""
	}

	switch segments[3] {
	case "initialize", "execute", "finalize", "deinitialize":
		return segments[2], segments[3]
	}
	return "", ""
}

// GetClientIP extracts the client IP address from the request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
