package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
)

func TestRuleTriggered(t *testing.T) {
	tests := []struct {
		name      string
		operator  Operator
		threshold float64
		value     float64
		expected  bool
	}{
		{"gt above threshold", OpGreaterThan, 80, 80.01, true},
		{"gt at threshold", OpGreaterThan, 80, 80, false},
		{"gt below threshold", OpGreaterThan, 80, 79.99, false},
		{"gte at threshold", OpGreaterOrEqual, 80, 80, true},
		{"gte below threshold", OpGreaterOrEqual, 80, 79.99, false},
		{"lt below threshold", OpLessThan, 10, 9.99, true},
		{"lt at threshold", OpLessThan, 10, 10, false},
		{"lte at threshold", OpLessOrEqual, 10, 10, true},
		{"lte above threshold", OpLessOrEqual, 10, 10.01, false},
		{"eq exact match", OpEqual, 1, 1, true},
		{"eq mismatch", OpEqual, 1, 0.999, false},
		{"unknown operator never triggers", Operator("contains"), 80, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &Rule{ID: "test", Operator: tt.operator, Threshold: tt.threshold}
			assert.Equal(t, tt.expected, rule.Triggered(tt.value))
		})
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"valid rule", Rule{ID: "cpu_high", Operator: OpGreaterThan}, false},
		{"missing id", Rule{Operator: OpGreaterThan}, true},
		{"negative cooldown", Rule{ID: "x", Operator: OpGreaterThan, Cooldown: -time.Minute}, true},
		{"unknown operator", Rule{ID: "x", Operator: Operator("between")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRulesFromConfig(t *testing.T) {
	cfg := &config.AlertsConfig{
		Enabled:         true,
		CooldownMinutes: 10,
		Thresholds: config.AlertsThresholdsConfig{
			CPUPercent:       75,
			MemoryPercent:    85,
			DiskPercent:      95,
			ResponseTimeMs:   500,
			ErrorRatePercent: 2,
		},
	}

	rules := rulesFromConfig(cfg)
	require.Len(t, rules, 5)

	byID := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		assert.True(t, rule.Enabled, "rule %s should be enabled", rule.ID)
		assert.Equal(t, 10*time.Minute, rule.Cooldown, "rule %s cooldown", rule.ID)
		byID[rule.ID] = rule
	}

	assert.Equal(t, 75.0, byID["cpu_high"].Threshold)
	assert.Equal(t, 85.0, byID["memory_high"].Threshold)
	assert.Equal(t, 95.0, byID["disk_high"].Threshold)
	assert.Equal(t, 2.0, byID["error_rate_high"].Threshold)
	assert.Equal(t, 500.0, byID["response_time_high"].Threshold)

	assert.Equal(t, SeverityCritical, byID["disk_high"].Severity)
	assert.Equal(t, SeverityMedium, byID["response_time_high"].Severity)
	assert.Equal(t, "system", byID["cpu_high"].Component)
	assert.Equal(t, "application", byID["error_rate_high"].Component)
}

func TestMetricUnit(t *testing.T) {
	assert.Equal(t, "%", metricUnit("cpu_usage"))
	assert.Equal(t, "%", metricUnit("error_rate"))
	assert.Equal(t, "ms", metricUnit("avg_response_time"))
	assert.Equal(t, "", metricUnit("queue_depth"))
}
