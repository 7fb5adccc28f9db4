package metrics

import (
	"sync"
	"time"
)

// RequestTracker accumulates HTTP request counts and latencies so the
// monitoring loop can derive an application-level error rate and average
// response time. Counters are cumulative for the process lifetime.
type RequestTracker struct {
	mu           sync.Mutex
	requestCount int64
	errorCount   int64
	totalLatency time.Duration
}

// NewRequestTracker creates an empty tracker
func NewRequestTracker() *RequestTracker {
	return &RequestTracker{}
}

// Record adds one completed request. Responses with status >= 500 count as
// errors; client errors are the caller's fault and do not indicate an
// unhealthy application.
func (t *RequestTracker) Record(status int, latency time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requestCount++
	t.totalLatency += latency
	if status >= 500 {
		t.errorCount++
	}
}

// Snapshot returns the current traffic view
func (t *RequestTracker) Snapshot() AppSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := AppSnapshot{
		RequestCount: t.requestCount,
		ErrorCount:   t.errorCount,
		Timestamp:    time.Now(),
	}

	if t.requestCount > 0 {
		snap.ErrorRatePercent = float64(t.errorCount) / float64(t.requestCount) * 100
		snap.AvgResponseTimeMs = float64(t.totalLatency.Milliseconds()) / float64(t.requestCount)
	}

	return snap
}
