package handlers

import (
	"net/http"
	"time"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := "healthy"
		statusCode := http.StatusOK
		if err := s.MongoDB.Ping(r.Context()); err != nil {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		snapshot := s.Metrics.Snapshot()
		writeJSON(w, statusCode, map[string]interface{}{
			"status":         status,
			"server_time":    time.Now(),
			"uptime_seconds": snapshot.UptimeSeconds,
			"request_count":  snapshot.RequestCount,
			"error_count":    snapshot.ErrorCount,
		})
	}
}

// HandleMetrics exposes the in-process operation counters
func (s *Server) HandleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, http.StatusOK, s.Metrics.Snapshot())
	}
}
