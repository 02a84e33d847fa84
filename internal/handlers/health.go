package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/chefchat/chefchat/internal/store"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	store store.Store
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(s store.Store) *HealthChecker {
	return &HealthChecker{store: s}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /health endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		if err := h.checkStore(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["store"] = "unhealthy: " + err.Error()
		} else {
			checks["store"] = "healthy"
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkStore verifies the key-value store connection
func (h *HealthChecker) checkStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.store.Ping(ctx)
}
