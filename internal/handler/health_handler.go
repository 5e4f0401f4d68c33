package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"activities-be/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "activities-be",
		Checks:    map[string]string{},
	}

	status := http.StatusOK
	if db := h.container.GetDatabase(); db != nil {
		if err := db.Health(r.Context()); err != nil {
			logger.WithError(err).Error("Database health check failed")
			response.Checks["database"] = "unhealthy"
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			response.Checks["database"] = "healthy"
		}
	}
	if cache := h.container.GetRedisClient(); cache != nil {
		if err := cache.Health(r.Context()); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			response.Checks["redis"] = "unhealthy"
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
		} else {
			response.Checks["redis"] = "healthy"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode health check response")
	}
}
