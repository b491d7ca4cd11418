package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API routes with the given mux.
// Middleware is applied by the caller.
func RegisterRoutes(mux *http.ServeMux, s *Server) {
	mux.HandleFunc("GET /health", HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/state", s.GetState)
	mux.HandleFunc("GET /api/channels", s.GetChannels)
}
