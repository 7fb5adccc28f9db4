package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/websocket"
	"github.com/stockflow-ops/stockflow-backend-go/pkg/errors"
)

// AlertHandler exposes the alert engine over HTTP
type AlertHandler struct {
	engine *alerting.Engine
	hub    *websocket.Hub
	logger *logrus.Logger
}

// NewAlertHandler creates an alert handler. hub may be nil when websocket
// broadcasting is disabled.
func NewAlertHandler(engine *alerting.Engine, hub *websocket.Hub, logger *logrus.Logger) *AlertHandler {
	return &AlertHandler{
		engine: engine,
		hub:    hub,
		logger: logger,
	}
}

// RegisterRoutes registers alert routes on the given group
func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/alerts", h.GetAlerts)
	router.GET("/alerts/history", h.GetHistory)
	router.GET("/alerts/stats", h.GetStatistics)
	router.GET("/alerts/rules", h.GetRules)
	router.POST("/alerts/test", h.CreateTestAlert)
	router.POST("/alerts/:id/acknowledge", h.AcknowledgeAlert)
	router.POST("/alerts/:id/resolve", h.ResolveAlert)
}

// GetAlerts returns active alerts, or history filtered by component/severity
// when either query parameter is present.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	if component := c.Query("component"); component != "" {
		alerts := h.engine.GetByComponent(component)
		c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
		return
	}

	if severity := c.Query("severity"); severity != "" {
		alerts := h.engine.GetBySeverity(alerting.Severity(severity))
		c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
		return
	}

	alerts := h.engine.GetActive()
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// GetHistory returns the most recent history entries
func (h *AlertHandler) GetHistory(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, errors.WithDetails(errors.ErrBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	alerts := h.engine.GetHistory(limit)
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// GetStatistics returns alert statistics
func (h *AlertHandler) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetStatistics())
}

// GetRules returns the configured rule table
func (h *AlertHandler) GetRules(c *gin.Context) {
	rules := h.engine.Rules()
	c.JSON(http.StatusOK, gin.H{"rules": rules, "count": len(rules)})
}

// CreateTestAlert fires a synthetic alert through the full notification path
func (h *AlertHandler) CreateTestAlert(c *gin.Context) {
	alert := h.engine.CreateTestAlert()
	if alert == nil {
		respondError(c, errors.WithDetails(errors.ErrServiceUnavailable, "alerting is disabled"))
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// AcknowledgeAlert transitions an active alert to acknowledged
func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	id := c.Param("id")
	if !h.engine.Acknowledge(id) {
		respondError(c, errors.WithDetails(errors.ErrNotFound, "no active alert with id "+id))
		return
	}

	h.broadcast(websocket.MessageTypeAlertAcknowledged, id)
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "alert_id": id})
}

// ResolveAlert resolves an active or acknowledged alert
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	id := c.Param("id")
	if !h.engine.Resolve(id) {
		respondError(c, errors.WithDetails(errors.ErrNotFound, "no active alert with id "+id))
		return
	}

	h.broadcast(websocket.MessageTypeAlertResolved, id)
	c.JSON(http.StatusOK, gin.H{"resolved": true, "alert_id": id})
}

func (h *AlertHandler) broadcast(msgType, alertID string) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(websocket.NewAlertEventMessage(msgType, alertID, nil))
}

// respondError writes an AppError as a JSON response
func respondError(c *gin.Context, err *errors.AppError) {
	c.JSON(errors.GetStatusCode(err), gin.H{"error": err.Message, "details": err.Details})
}
