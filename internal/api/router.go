package api

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/api/recovery"
)

// NewRouter wires the admin HTTP routes. ready probes dependencies on
// request; isHealthy reports the cached service flag.
func NewRouter(isHealthy func() bool, ready func(ctx context.Context) error, pub Publisher, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(isHealthy, ready)
	router.HandleFunc("/v1/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/v1/ready", healthHandler.CheckReady).Methods("GET")

	if pub != nil {
		planHandler := NewPlanHandler(pub, log)
		router.HandleFunc("/v1/assist/plan", planHandler.EnqueuePlan).Methods("POST")
	}

	return router
}
