package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
)

func TestGetHistoryLimit(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		offset := time.Duration(i) * 20 * time.Minute
		engine.now = func() time.Time { return base.Add(offset) }
		require.Len(t, engine.EvaluateSystemMetrics(systemSnapshot(95, 50, 50)), 1)
	}

	history := engine.GetHistory(2)
	require.Len(t, history, 2)
	assert.Equal(t, base.Add(40*time.Minute), history[0].Timestamp)
	assert.Equal(t, base.Add(20*time.Minute), history[1].Timestamp)

	assert.Len(t, engine.GetHistory(0), 3)
	assert.Len(t, engine.GetHistory(-1), 3)
	assert.Len(t, engine.GetHistory(100), 3)
}

func TestGetByComponentAndSeverity(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	engine.EvaluateSystemMetrics(systemSnapshot(95, 50, 95))
	engine.EvaluateApplicationMetrics(appSnapshotOver())

	byComponent := engine.GetByComponent("system")
	require.Len(t, byComponent, 2)
	for _, alert := range byComponent {
		assert.Equal(t, "system", alert.Component)
	}

	bySeverity := engine.GetBySeverity(SeverityCritical)
	require.Len(t, bySeverity, 1)
	assert.Equal(t, "disk_high", bySeverity[0].ID)

	assert.Empty(t, engine.GetByComponent("unknown"))
	assert.Empty(t, engine.GetBySeverity(SeverityLow))
}

func appSnapshotOver() metrics.AppSnapshot {
	return metrics.AppSnapshot{
		RequestCount:      500,
		ErrorRatePercent:  10,
		AvgResponseTimeMs: 2000,
	}
}

func TestGetStatistics(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return base }
	require.Len(t, engine.EvaluateSystemMetrics(systemSnapshot(95, 90, 50)), 2)

	engine.now = func() time.Time { return base.Add(30 * time.Minute) }
	require.True(t, engine.Resolve("cpu_high"))

	engine.now = func() time.Time { return base.Add(time.Hour) }
	stats := engine.GetStatistics()

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, len(engine.GetActive()), stats.Active)
	assert.Equal(t, 2, stats.Last24Hours)
	assert.Equal(t, 2, stats.Last7Days)
	assert.Equal(t, 2, stats.BySeverity[SeverityHigh])
	assert.Equal(t, 2, stats.ByComponent["system"])

	sum := 0
	for _, count := range stats.BySeverity {
		sum += count
	}
	assert.Equal(t, stats.Total, sum)

	assert.Equal(t, (30 * time.Minute).Seconds(), stats.AvgResolutionTimeSeconds)
	assert.Equal(t, 30.0, stats.MTTRMinutes)
}

func TestGetStatisticsEmptyHistory(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	stats := engine.GetStatistics()
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Active)
	assert.Zero(t, stats.AvgResolutionTimeSeconds)
	assert.Zero(t, stats.MTTRMinutes)
	assert.NotNil(t, stats.BySeverity)
	assert.NotNil(t, stats.ByComponent)
}

func TestClearOldAlerts(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Old resolved alert, purgeable.
	engine.now = func() time.Time { return base.AddDate(0, 0, -40) }
	require.Len(t, engine.EvaluateApplicationMetrics(appSnapshotOver()), 2)
	require.True(t, engine.Resolve("error_rate_high"))
	require.True(t, engine.Resolve("response_time_high"))

	// Old but still active alert, must survive any retention window.
	require.Len(t, engine.EvaluateSystemMetrics(systemSnapshot(95, 50, 50)), 1)

	// Recent alert, inside the window.
	engine.now = func() time.Time { return base.AddDate(0, 0, -1) }
	require.Len(t, engine.EvaluateSystemMetrics(systemSnapshot(50, 90, 50)), 1)

	engine.now = func() time.Time { return base }
	removed := engine.ClearOldAlerts(30)
	assert.Equal(t, 2, removed)

	history := engine.GetHistory(0)
	require.Len(t, history, 2)

	ids := []string{history[0].ID, history[1].ID}
	assert.Contains(t, ids, "cpu_high")
	assert.Contains(t, ids, "memory_high")

	// The 40-day-old cpu_high alert is still active and still queryable.
	active := engine.GetActive()
	assert.Len(t, active, 2)
}

func TestClearOldAlertsPurgesReplacedOccurrences(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// First occurrence, later replaced by a re-fire.
	engine.now = func() time.Time { return base.AddDate(0, 0, -40) }
	require.Len(t, engine.EvaluateSystemMetrics(systemSnapshot(95, 50, 50)), 1)

	engine.now = func() time.Time { return base }
	require.Len(t, engine.EvaluateSystemMetrics(systemSnapshot(97, 50, 50)), 1)

	removed := engine.ClearOldAlerts(30)
	assert.Equal(t, 1, removed)

	history := engine.GetHistory(0)
	require.Len(t, history, 1)
	assert.Equal(t, 97.0, history[0].Value)
	assert.Len(t, engine.GetActive(), 1)
}

func TestRulesSortedByID(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	rules := engine.Rules()
	require.Len(t, rules, 5)
	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].ID, rules[i].ID)
	}
}
