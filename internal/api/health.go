package api

import (
	"net/http"
	"time"

	respond "github.com/mindflow/mindflow/internal/api/respond"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	serviceIsHealthy func() bool
	aiAvailable      func() bool
}

// NewHealthHandler starts unhealthy until BindServiceHealth is called.
func NewHealthHandler(aiAvailable func() bool) *HealthHandler {
	if aiAvailable == nil {
		aiAvailable = func() bool { return false }
	}
	return &HealthHandler{
		serviceIsHealthy: func() bool { return false },
		aiAvailable:      aiAvailable,
	}
}

// BindServiceHealth lets the runner inject the aggregated service health.
func (h *HealthHandler) BindServiceHealth(f func() bool) { h.serviceIsHealthy = f }

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.serviceIsHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      status,
		"aiAvailable": h.aiAvailable(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}
