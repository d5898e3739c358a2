// Package http exposes the optional debug listener. It serves
// operational endpoints only; transaction data never leaves through it.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/adapter/http/handler"
)

// RouterConfig holds all dependencies needed by the debug router.
type RouterConfig struct {
	Logger        zerolog.Logger
	HealthHandler *handler.HealthHandler
}

// NewRouter creates the debug HTTP router with all middleware and routes
// configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", cfg.HealthHandler.Liveness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// requestLogger logs every debug request with method, path, status and
// duration. Debug level keeps the endpoints quiet under the default
// log level.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()

			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, req)

			logger.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_addr", req.RemoteAddr).
				Int("status", wrapped.statusCode).
				Dur("duration", time.Since(start)).
				Msg("debug request")
		})
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
