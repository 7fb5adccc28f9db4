package alerting

import (
	"fmt"
	"strings"
	"time"

	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
)

// Operator is the comparison applied between an observed value and a rule
// threshold.
type Operator string

const (
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpEqual          Operator = "eq"
)

// Rule is a static definition of a metric threshold, its comparison
// operator, severity, and cooldown. Disabled rules are never evaluated.
type Rule struct {
	ID        string        `json:"id"`
	Component string        `json:"component"`
	Metric    string        `json:"metric"`
	Operator  Operator      `json:"operator"`
	Threshold float64       `json:"threshold"`
	Severity  Severity      `json:"severity"`
	Cooldown  time.Duration `json:"cooldown"`
	Title     string        `json:"title"`
	Enabled   bool          `json:"enabled"`
}

// Triggered reports whether value crosses the rule's threshold. Pure
// comparison, no side effects. The eq operator is exact numeric equality,
// used for boolean-coded values.
func (r *Rule) Triggered(value float64) bool {
	switch r.Operator {
	case OpGreaterThan:
		return value > r.Threshold
	case OpGreaterOrEqual:
		return value >= r.Threshold
	case OpLessThan:
		return value < r.Threshold
	case OpLessOrEqual:
		return value <= r.Threshold
	case OpEqual:
		return value == r.Threshold
	default:
		return false
	}
}

// validate checks rule table invariants at construction time
func (r *Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.Cooldown < 0 {
		return fmt.Errorf("rule %s: cooldown must not be negative", r.ID)
	}
	switch r.Operator {
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual, OpEqual:
	default:
		return fmt.Errorf("rule %s: unknown operator %q", r.ID, r.Operator)
	}
	return nil
}

// rulesFromConfig builds the fixed rule table, with thresholds overridden
// from configuration.
func rulesFromConfig(cfg *config.AlertsConfig) []Rule {
	cooldown := time.Duration(cfg.CooldownMinutes) * time.Minute
	t := cfg.Thresholds

	return []Rule{
		{
			ID:        "cpu_high",
			Component: "system",
			Metric:    "cpu_usage",
			Operator:  OpGreaterThan,
			Threshold: t.CPUPercent,
			Severity:  SeverityHigh,
			Cooldown:  cooldown,
			Title:     "High CPU Usage",
			Enabled:   true,
		},
		{
			ID:        "memory_high",
			Component: "system",
			Metric:    "memory_usage",
			Operator:  OpGreaterThan,
			Threshold: t.MemoryPercent,
			Severity:  SeverityHigh,
			Cooldown:  cooldown,
			Title:     "High Memory Usage",
			Enabled:   true,
		},
		{
			ID:        "disk_high",
			Component: "system",
			Metric:    "disk_usage",
			Operator:  OpGreaterThan,
			Threshold: t.DiskPercent,
			Severity:  SeverityCritical,
			Cooldown:  cooldown,
			Title:     "High Disk Usage",
			Enabled:   true,
		},
		{
			ID:        "error_rate_high",
			Component: "application",
			Metric:    "error_rate",
			Operator:  OpGreaterThan,
			Threshold: t.ErrorRatePercent,
			Severity:  SeverityHigh,
			Cooldown:  cooldown,
			Title:     "High Error Rate",
			Enabled:   true,
		},
		{
			ID:        "response_time_high",
			Component: "application",
			Metric:    "avg_response_time",
			Operator:  OpGreaterThan,
			Threshold: t.ResponseTimeMs,
			Severity:  SeverityMedium,
			Cooldown:  cooldown,
			Title:     "Slow Response Time",
			Enabled:   true,
		},
	}
}

// metricUnit returns the display unit for a metric name. Usage and rate
// metrics are percentages; time metrics are milliseconds.
func metricUnit(metric string) string {
	switch {
	case strings.Contains(metric, "usage") || strings.Contains(metric, "rate"):
		return "%"
	case strings.Contains(metric, "time"):
		return "ms"
	default:
		return ""
	}
}
