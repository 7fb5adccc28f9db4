package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stockflow-ops/stockflow-backend-go/internal/database"
	"github.com/stockflow-ops/stockflow-backend-go/pkg/errors"
)

// NotificationHandler exposes the notification delivery audit log
type NotificationHandler struct {
	auditLog *database.NotificationLogRepository
}

// NewNotificationHandler creates a notification log handler
func NewNotificationHandler(auditLog *database.NotificationLogRepository) *NotificationHandler {
	return &NotificationHandler{auditLog: auditLog}
}

// RegisterRoutes registers notification routes on the given group
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/notifications/log", h.GetLog)
}

// GetLog returns the most recent notification delivery attempts
func (h *NotificationHandler) GetLog(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, errors.WithDetails(errors.ErrBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := h.auditLog.Recent(limit)
	if err != nil {
		respondError(c, errors.WithDetails(errors.ErrInternalServer, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": records, "count": len(records)})
}
