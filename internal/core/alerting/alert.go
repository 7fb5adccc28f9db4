package alerting

import (
	"time"
)

// Severity represents the severity level of an alert
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status represents the lifecycle state of an alert. The only transitions
// are active -> acknowledged, active -> resolved, and
// acknowledged -> resolved; resolved is terminal.
type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
)

// Alert is a concrete, time-stamped occurrence of a rule or health check
// crossing its condition. The engine owns the canonical copy; callers only
// ever receive value copies.
type Alert struct {
	ID          string                 `json:"id"`
	Timestamp   time.Time              `json:"timestamp"`
	Severity    Severity               `json:"severity"`
	Component   string                 `json:"component"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Metric      string                 `json:"metric,omitempty"`
	Value       float64                `json:"value,omitempty"`
	Threshold   float64                `json:"threshold,omitempty"`
	Status      Status                 `json:"status"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Statistics summarizes the alert history
type Statistics struct {
	Total                    int              `json:"total"`
	Active                   int              `json:"active"`
	Last24Hours              int              `json:"last_24h"`
	Last7Days                int              `json:"last_7d"`
	BySeverity               map[Severity]int `json:"by_severity"`
	ByComponent              map[string]int   `json:"by_component"`
	AvgResolutionTimeSeconds float64          `json:"average_resolution_time_seconds"`
	MTTRMinutes              float64          `json:"mean_time_to_resolution_minutes"`
}
