package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Middleware sets the JSON content type and logs every request with its
// duration
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.S().Debugw("request handled",
			"method", r.Method,
			"url", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
