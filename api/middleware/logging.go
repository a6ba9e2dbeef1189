package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/chylers/storefront-api/pkg/logger"
)

// Logging emits request.start and request.complete around every request.
// Probe and scrape traffic is logged at debug level only.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			quiet := strings.HasPrefix(r.URL.Path, "/health/") || r.URL.Path == "/metrics"
			emit := logg.Info
			if quiet {
				emit = logg.Debug
			}

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method":    r.Method,
				"path":      r.URL.Path,
				"client_ip": clientIP(r),
			})
			emit(ctx, "request.start")

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			ctx = logg.WithFields(ctx, map[string]any{
				"route":       routePattern(r),
				"status":      defaultStatus(rec.status),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			emit(ctx, "request.complete")
		})
	}
}
