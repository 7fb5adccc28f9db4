package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestTrackerEmptySnapshot(t *testing.T) {
	tracker := NewRequestTracker()

	snap := tracker.Snapshot()
	assert.Zero(t, snap.RequestCount)
	assert.Zero(t, snap.ErrorCount)
	assert.Zero(t, snap.ErrorRatePercent)
	assert.Zero(t, snap.AvgResponseTimeMs)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestRequestTrackerRecord(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		latencyEach  time.Duration
		wantRequests int64
		wantErrors   int64
		wantRate     float64
		wantAvgMs    float64
	}{
		{
			name:         "all successful",
			statuses:     []int{200, 201, 204, 304},
			latencyEach:  100 * time.Millisecond,
			wantRequests: 4,
			wantErrors:   0,
			wantRate:     0,
			wantAvgMs:    100,
		},
		{
			name:         "client errors are not failures",
			statuses:     []int{200, 400, 404, 429},
			latencyEach:  50 * time.Millisecond,
			wantRequests: 4,
			wantErrors:   0,
			wantRate:     0,
			wantAvgMs:    50,
		},
		{
			name:         "server errors counted",
			statuses:     []int{200, 500, 502, 503},
			latencyEach:  200 * time.Millisecond,
			wantRequests: 4,
			wantErrors:   3,
			wantRate:     75,
			wantAvgMs:    200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewRequestTracker()
			for _, status := range tt.statuses {
				tracker.Record(status, tt.latencyEach)
			}

			snap := tracker.Snapshot()
			assert.Equal(t, tt.wantRequests, snap.RequestCount)
			assert.Equal(t, tt.wantErrors, snap.ErrorCount)
			assert.InDelta(t, tt.wantRate, snap.ErrorRatePercent, 0.001)
			assert.InDelta(t, tt.wantAvgMs, snap.AvgResponseTimeMs, 0.001)
		})
	}
}

func TestRequestTrackerAveragesMixedLatencies(t *testing.T) {
	tracker := NewRequestTracker()
	tracker.Record(200, 100*time.Millisecond)
	tracker.Record(200, 300*time.Millisecond)

	snap := tracker.Snapshot()
	assert.InDelta(t, 200.0, snap.AvgResponseTimeMs, 0.001)
}
