package websocket

import (
	"encoding/json"
	"time"
)

// Message types for WebSocket communication
const (
	MessageTypeAlertTriggered    = "alert_triggered"
	MessageTypeAlertAcknowledged = "alert_acknowledged"
	MessageTypeAlertResolved     = "alert_resolved"
	MessageTypeConnectionStatus  = "connection_status"
	MessageTypeHeartbeat         = "heartbeat"
)

// Message represents a WebSocket message
type Message struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m Message) ToJSON() []byte {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	data, _ := json.Marshal(m)
	return data
}

// NewAlertEventMessage builds a lifecycle event message for an alert id.
// The payload carries the raw alert document so dashboards can render it
// without a follow-up fetch.
func NewAlertEventMessage(msgType, alertID string, alert interface{}) Message {
	return Message{
		Type: msgType,
		Data: map[string]interface{}{
			"alert_id": alertID,
			"alert":    alert,
		},
		Timestamp: time.Now().UTC(),
	}
}
