package notifications

import (
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/websocket"
)

// WebSocketChannel broadcasts fired alerts to connected dashboard clients
type WebSocketChannel struct {
	hub *websocket.Hub
}

// NewWebSocketChannel creates a channel backed by the given hub
func NewWebSocketChannel(hub *websocket.Hub) *WebSocketChannel {
	return &WebSocketChannel{hub: hub}
}

func (w *WebSocketChannel) Name() string { return "websocket" }

// Send broadcasts the alert. Broadcasting to zero clients is a success.
func (w *WebSocketChannel) Send(alert alerting.Alert) error {
	w.hub.Broadcast(websocket.NewAlertEventMessage(websocket.MessageTypeAlertTriggered, alert.ID, alert))
	return nil
}
