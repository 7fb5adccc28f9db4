package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageToJSON(t *testing.T) {
	msg := Message{
		Type:      MessageTypeHeartbeat,
		Data:      map[string]interface{}{"clients": 3},
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	var decoded Message
	require.NoError(t, json.Unmarshal(msg.ToJSON(), &decoded))
	assert.Equal(t, MessageTypeHeartbeat, decoded.Type)
	assert.Equal(t, float64(3), decoded.Data["clients"])
	assert.True(t, decoded.Timestamp.Equal(msg.Timestamp))
}

func TestMessageToJSONStampsMissingTimestamp(t *testing.T) {
	msg := Message{Type: MessageTypeConnectionStatus}

	var decoded Message
	require.NoError(t, json.Unmarshal(msg.ToJSON(), &decoded))
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestNewAlertEventMessage(t *testing.T) {
	payload := map[string]string{"id": "cpu_high", "severity": "high"}
	msg := NewAlertEventMessage(MessageTypeAlertTriggered, "cpu_high", payload)

	assert.Equal(t, MessageTypeAlertTriggered, msg.Type)
	assert.Equal(t, "cpu_high", msg.Data["alert_id"])
	assert.Equal(t, payload, msg.Data["alert"])
	assert.False(t, msg.Timestamp.IsZero())
}
