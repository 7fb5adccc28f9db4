package metrics

import (
	"time"
)

// Collector defines the interface for recording operational metrics
type Collector interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
	RecordSystemResource(cpu, memory, disk float64)
	RecordAlert(severity, component string)
	RecordNotification(channel string, success bool)
}

// Config contains configuration for metrics collection
type Config struct {
	Enabled bool
	Prefix  string
}

// SystemSnapshot is a point-in-time view of host resource usage. Percentages
// are 0-100 floats.
type SystemSnapshot struct {
	CPU       CPUUsage    `json:"cpu"`
	Memory    MemoryUsage `json:"memory"`
	Disk      DiskUsage   `json:"disk"`
	Timestamp time.Time   `json:"timestamp"`
}

// CPUUsage represents CPU utilization
type CPUUsage struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
}

// MemoryUsage represents memory utilization
type MemoryUsage struct {
	Total        uint64  `json:"total"`
	Used         uint64  `json:"used"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskUsage represents disk utilization for the monitored mount
type DiskUsage struct {
	Path         string  `json:"path"`
	Total        uint64  `json:"total"`
	Used         uint64  `json:"used"`
	UsagePercent float64 `json:"usage_percent"`
}

// AppSnapshot is a point-in-time view of application HTTP traffic. ErrorRate
// is a 0-100 percentage; response times are milliseconds. RequestCount of
// zero means no traffic has been observed yet and the derived rates carry no
// signal.
type AppSnapshot struct {
	RequestCount      int64     `json:"request_count"`
	ErrorCount        int64     `json:"error_count"`
	ErrorRatePercent  float64   `json:"error_rate_percent"`
	AvgResponseTimeMs float64   `json:"avg_response_time_ms"`
	Timestamp         time.Time `json:"timestamp"`
}
