package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements Collector using Prometheus metrics
type PrometheusCollector struct {
	config *Config

	// HTTP Metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Metrics
	systemCPU    prometheus.Gauge
	systemMemory prometheus.Gauge
	systemDisk   prometheus.Gauge

	// Alert Metrics
	alertsTotal *prometheus.CounterVec

	// Notification Metrics
	notificationsTotal *prometheus.CounterVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector
func NewPrometheusCollector(config *Config) *PrometheusCollector {
	if config == nil {
		config = &Config{
			Enabled: true,
			Prefix:  "stockflow",
		}
	}

	prefix := config.Prefix

	collector := &PrometheusCollector{
		config: config,
	}

	collector.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	collector.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	collector.systemCPU = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_system_cpu_usage_percent",
			Help: "System CPU usage percentage",
		},
	)

	collector.systemMemory = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_system_memory_usage_percent",
			Help: "System memory usage percentage",
		},
	)

	collector.systemDisk = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_system_disk_usage_percent",
			Help: "System disk usage percentage",
		},
	)

	collector.alertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_alerts_total",
			Help: "Total number of alerts generated",
		},
		[]string{"severity", "component"},
	)

	collector.notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notifications_total",
			Help: "Total number of alert notification deliveries",
		},
		[]string{"channel", "success"},
	)

	return collector
}

// RecordHTTPRequest records HTTP request metrics
func (p *PrometheusCollector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if !p.config.Enabled {
		return
	}

	p.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	p.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSystemResource records system resource gauges
func (p *PrometheusCollector) RecordSystemResource(cpu, memory, disk float64) {
	if !p.config.Enabled {
		return
	}

	p.systemCPU.Set(cpu)
	p.systemMemory.Set(memory)
	p.systemDisk.Set(disk)
}

// RecordAlert records an alert firing
func (p *PrometheusCollector) RecordAlert(severity, component string) {
	if !p.config.Enabled {
		return
	}

	p.alertsTotal.WithLabelValues(severity, component).Inc()
}

// RecordNotification records a notification delivery attempt
func (p *PrometheusCollector) RecordNotification(channel string, success bool) {
	if !p.config.Enabled {
		return
	}

	p.notificationsTotal.WithLabelValues(channel, strconv.FormatBool(success)).Inc()
}
