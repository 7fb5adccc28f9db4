package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockflow-ops/stockflow-backend-go/internal/core/health"
)

// HealthHandler exposes health probes
type HealthHandler struct {
	runner *health.Runner
}

// NewHealthHandler creates a health handler over the given runner
func NewHealthHandler(runner *health.Runner) *HealthHandler {
	return &HealthHandler{runner: runner}
}

// RegisterRoutes registers health routes on the root router
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.GetHealth)
	router.GET("/health/live", h.GetLiveness)
	router.GET("/health/ready", h.GetReadiness)
}

// GetHealth runs all component checks and returns the aggregate status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	results := h.runner.RunAll(c.Request.Context())
	overall, message := health.Overall(results)

	status := http.StatusOK
	switch overall {
	case health.StatusUnhealthy:
		status = http.StatusServiceUnavailable
	case health.StatusDegraded:
		status = http.StatusPartialContent
	}

	components := make(map[string]interface{}, len(results))
	for _, res := range results {
		components[res.Component] = gin.H{
			"status":           res.Status,
			"message":          res.Message,
			"response_time_ms": float64(res.ResponseTime.Microseconds()) / 1000.0,
			"details":          res.Details,
		}
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"message":    message,
		"components": components,
		"timestamp":  time.Now(),
	})
}

// GetLiveness returns liveness probe status
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// GetReadiness returns readiness probe status; any unhealthy component means
// not ready.
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	results := h.runner.RunAll(c.Request.Context())
	overall, _ := health.Overall(results)

	if overall == health.StatusUnhealthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}
