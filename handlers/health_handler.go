package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bc144/sf-agent/utils"
)

// ServiceName identifies this service in health responses
const ServiceName = "sf-agent"

// HealthResponse represents the liveness check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// IndexProber reports whether the vector index is reachable
type IndexProber interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	index  IndexProber
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(index IndexProber, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		index:  index,
		logger: logger,
	}
}

// HandleHealth handles GET /health
// Basic liveness check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /ready
// Readiness check - validates that the vector index is reachable
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if err := h.checkIndex(ctx); err != nil {
		h.logger.Warn("vector index health check failed", zap.Error(err))
		checks["vector_index"] = "unhealthy"
		allHealthy = false
	} else {
		checks["vector_index"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := ReadinessResponse{
		Status: status,
		Checks: checks,
	}

	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// checkIndex probes the vector index with the request-scoped timeout
func (h *HealthHandler) checkIndex(ctx context.Context) error {
	if h.index == nil {
		return nil
	}
	return h.index.HealthCheck(ctx)
}
