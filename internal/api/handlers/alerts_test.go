package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
	"github.com/stockflow-ops/stockflow-backend-go/pkg/logger"
)

func alertsTestConfig(enabled bool) *config.AlertsConfig {
	return &config.AlertsConfig{
		Enabled:         enabled,
		CooldownMinutes: 15,
		Thresholds: config.AlertsThresholdsConfig{
			CPUPercent:       80,
			MemoryPercent:    85,
			DiskPercent:      90,
			ResponseTimeMs:   1000,
			ErrorRatePercent: 5,
		},
	}
}

func newAlertsRouter(t *testing.T, enabled bool) (*gin.Engine, *alerting.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := alerting.NewEngine(alertsTestConfig(enabled), nil, nil, logger.NewNop())
	require.NoError(t, err)

	router := gin.New()
	NewAlertHandler(engine, nil, logger.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router, engine
}

func fireCPUAlert(t *testing.T, engine *alerting.Engine) {
	t.Helper()
	fired := engine.EvaluateSystemMetrics(metrics.SystemSnapshot{
		CPU: metrics.CPUUsage{UsagePercent: 95},
	})
	require.Len(t, fired, 1)
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetAlerts(t *testing.T) {
	router, engine := newAlertsRouter(t, true)
	fireCPUAlert(t, engine)

	rec := doRequest(router, http.MethodGet, "/api/v1/alerts")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Alerts []alerting.Alert `json:"alerts"`
		Count  int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "cpu_high", body.Alerts[0].ID)
}

func TestGetAlertsFilters(t *testing.T) {
	router, engine := newAlertsRouter(t, true)
	fireCPUAlert(t, engine)

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"by component match", "?component=system", 1},
		{"by component no match", "?component=application", 0},
		{"by severity match", "?severity=high", 1},
		{"by severity no match", "?severity=low", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/alerts"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Count int `json:"count"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.count, body.Count)
		})
	}
}

func TestGetHistoryLimitValidation(t *testing.T) {
	router, _ := newAlertsRouter(t, true)

	rec := doRequest(router, http.MethodGet, "/api/v1/alerts/history?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/alerts/history?limit=-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/alerts/history?limit=10")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetStatistics(t *testing.T) {
	router, engine := newAlertsRouter(t, true)
	fireCPUAlert(t, engine)

	rec := doRequest(router, http.MethodGet, "/api/v1/alerts/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats alerting.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Active)
}

func TestGetRules(t *testing.T) {
	router, _ := newAlertsRouter(t, true)

	rec := doRequest(router, http.MethodGet, "/api/v1/alerts/rules")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rules []alerting.Rule `json:"rules"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Count)
}

func TestCreateTestAlert(t *testing.T) {
	router, _ := newAlertsRouter(t, true)

	rec := doRequest(router, http.MethodPost, "/api/v1/alerts/test")
	require.Equal(t, http.StatusCreated, rec.Code)

	var alert alerting.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alert))
	assert.Contains(t, alert.ID, "test_")
	assert.Equal(t, alerting.SeverityLow, alert.Severity)
}

func TestCreateTestAlertDisabled(t *testing.T) {
	router, _ := newAlertsRouter(t, false)

	rec := doRequest(router, http.MethodPost, "/api/v1/alerts/test")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAcknowledgeAlert(t *testing.T) {
	router, engine := newAlertsRouter(t, true)
	fireCPUAlert(t, engine)

	rec := doRequest(router, http.MethodPost, "/api/v1/alerts/cpu_high/acknowledge")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/alerts/unknown/acknowledge")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveAlert(t *testing.T) {
	router, engine := newAlertsRouter(t, true)
	fireCPUAlert(t, engine)

	rec := doRequest(router, http.MethodPost, "/api/v1/alerts/cpu_high/resolve")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, engine.GetActive())

	// Resolved is terminal.
	rec = doRequest(router, http.MethodPost, "/api/v1/alerts/cpu_high/resolve")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
