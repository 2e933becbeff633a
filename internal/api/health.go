// Package api exposes the worker admin HTTP surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/veltaplan/schedule-assist/internal/api/respond"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	isHealthy func() bool
	ready     func(ctx context.Context) error
}

func NewHealthHandler(isHealthy func() bool, ready func(ctx context.Context) error) *HealthHandler {
	if isHealthy == nil {
		isHealthy = func() bool { return false }
	}
	return &HealthHandler{isHealthy: isHealthy, ready: ready}
}

// CheckHealth handles GET /v1/health.
// Always returns 200; the body reports healthy or unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.isHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckReady handles GET /v1/ready. Dependencies are probed on request.
func (h *HealthHandler) CheckReady(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.ready(ctx); err != nil {
		respond.WriteServiceUnavailable(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
