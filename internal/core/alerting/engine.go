package alerting

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/health"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
)

// Notifier delivers a fired alert to the configured channels. Delivery
// failures are logged by the engine and never propagate to evaluation
// callers.
type Notifier interface {
	Notify(alert Alert) error
}

// CounterSink receives a counter increment for every alert firing
type CounterSink interface {
	RecordAlert(severity, component string)
}

// Engine evaluates threshold rules and health-check results, owns all alert
// state (active map, append-only history, cooldown stamps), and drives the
// alert lifecycle. All state is guarded by a single mutex; evaluation and
// API-triggered lifecycle calls may run concurrently.
type Engine struct {
	cfg      *config.AlertsConfig
	logger   *logrus.Logger
	notifier Notifier
	sink     CounterSink
	rules    map[string]*Rule

	// now is replaceable for deterministic cooldown tests
	now func() time.Time

	mu        sync.Mutex
	active    map[string]*Alert
	history   []*Alert
	lastFired map[string]time.Time
}

// NewEngine builds the engine and its rule table from configuration.
// Construction is the only place the engine fails hard: a nil config, a
// negative cooldown, a non-positive threshold on an enabled engine, or a
// duplicate rule id aborts startup.
func NewEngine(cfg *config.AlertsConfig, notifier Notifier, sink CounterSink, logger *logrus.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("alerting: config is required")
	}
	if cfg.CooldownMinutes < 0 {
		return nil, fmt.Errorf("alerting: cooldown_minutes must not be negative")
	}

	rules := make(map[string]*Rule)
	for _, rule := range rulesFromConfig(cfg) {
		rule := rule
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("alerting: %w", err)
		}
		// A zero threshold on a gt rule would fire on any positive reading,
		// so thresholds are mandatory whenever the engine can evaluate.
		if cfg.Enabled && rule.Threshold <= 0 {
			return nil, fmt.Errorf("alerting: rule %s: threshold must be greater than 0", rule.ID)
		}
		if _, exists := rules[rule.ID]; exists {
			return nil, fmt.Errorf("alerting: duplicate rule id %q", rule.ID)
		}
		rules[rule.ID] = &rule
	}

	return &Engine{
		cfg:       cfg,
		logger:    logger,
		notifier:  notifier,
		sink:      sink,
		rules:     rules,
		now:       time.Now,
		active:    make(map[string]*Alert),
		history:   make([]*Alert, 0),
		lastFired: make(map[string]time.Time),
	}, nil
}

// Enabled reports whether the alerting feature is switched on
func (e *Engine) Enabled() bool {
	return e.cfg.Enabled
}

// EvaluateSystemMetrics runs the system threshold rules against a resource
// snapshot and returns the alerts fired by this call.
func (e *Engine) EvaluateSystemMetrics(snap metrics.SystemSnapshot) []Alert {
	if !e.cfg.Enabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var fired []Alert
	fired = e.appendFired(fired, e.evaluateRuleLocked("cpu_high", snap.CPU.UsagePercent))
	fired = e.appendFired(fired, e.evaluateRuleLocked("memory_high", snap.Memory.UsagePercent))
	fired = e.appendFired(fired, e.evaluateRuleLocked("disk_high", snap.Disk.UsagePercent))
	return fired
}

// EvaluateApplicationMetrics runs the application threshold rules against a
// traffic snapshot. A snapshot with no observed requests carries no signal
// and never fires; this avoids alerting on a legitimately-zero baseline
// before any traffic arrives.
func (e *Engine) EvaluateApplicationMetrics(snap metrics.AppSnapshot) []Alert {
	if !e.cfg.Enabled {
		return nil
	}
	if snap.RequestCount == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var fired []Alert
	fired = e.appendFired(fired, e.evaluateRuleLocked("error_rate_high", snap.ErrorRatePercent))
	fired = e.appendFired(fired, e.evaluateRuleLocked("response_time_high", snap.AvgResponseTimeMs))
	return fired
}

// EvaluateHealthChecks raises alerts for unhealthy and degraded components.
// A component returning to healthy does not resolve its earlier alert;
// resolution happens only through Resolve. This avoids flapping checks
// generating resolve/refire noise.
func (e *Engine) EvaluateHealthChecks(results []health.Result) []Alert {
	if !e.cfg.Enabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cooldown := time.Duration(e.cfg.CooldownMinutes) * time.Minute

	var fired []Alert
	for _, res := range results {
		var (
			id       string
			severity Severity
			title    string
		)

		switch res.Status {
		case health.StatusUnhealthy:
			id = "health_" + res.Component
			severity = SeverityCritical
			title = fmt.Sprintf("%s Health Check Failed", res.Component)
		case health.StatusDegraded:
			id = "degraded_" + res.Component
			severity = SeverityMedium
			title = fmt.Sprintf("%s Performance Degraded", res.Component)
		default:
			continue
		}

		if !e.shouldFireLocked(id, cooldown) {
			continue
		}
		e.lastFired[id] = e.now()

		metadata := map[string]interface{}{
			"response_time_ms": float64(res.ResponseTime.Microseconds()) / 1000.0,
		}
		if len(res.Details) > 0 {
			metadata["details"] = res.Details
		}

		alert := e.createAlertLocked(Alert{
			ID:          id,
			Severity:    severity,
			Component:   res.Component,
			Title:       title,
			Description: res.Message,
			Metadata:    metadata,
		})
		fired = append(fired, alert)
	}
	return fired
}

// CreateTestAlert creates a synthetic low-severity alert for verifying the
// end-to-end notification path.
func (e *Engine) CreateTestAlert() *Alert {
	if !e.cfg.Enabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	alert := e.createAlertLocked(Alert{
		ID:          "test_" + uuid.NewString(),
		Severity:    SeverityLow,
		Component:   "test",
		Title:       "Test Alert",
		Description: "This is a test alert to verify notification delivery",
	})
	return &alert
}

// Acknowledge transitions an active alert to acknowledged. It returns false
// when no active alert with the given id exists. Acknowledging an already
// acknowledged alert is idempotent.
func (e *Engine) Acknowledge(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.active[id]
	if !ok {
		return false
	}

	if alert.Status == StatusActive {
		alert.Status = StatusAcknowledged
		e.logger.WithFields(logrus.Fields{
			"alert_id": id,
			"severity": alert.Severity,
		}).Info("Alert acknowledged")
	}
	return true
}

// Resolve transitions an active or acknowledged alert to resolved, stamps
// ResolvedAt, and removes it from the active set. The record remains in
// history. Returns false when the id is not in the active set, which also
// covers already-resolved alerts.
func (e *Engine) Resolve(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.active[id]
	if !ok {
		return false
	}

	now := e.now()
	alert.Status = StatusResolved
	alert.ResolvedAt = &now
	delete(e.active, id)

	e.logger.WithFields(logrus.Fields{
		"alert_id": id,
		"severity": alert.Severity,
		"duration": now.Sub(alert.Timestamp).String(),
	}).Info("Alert resolved")
	return true
}

// evaluateRuleLocked runs a single rule against a value. Returns nil when
// the rule is missing, disabled, not triggered, or suppressed by cooldown.
// The caller must hold e.mu.
func (e *Engine) evaluateRuleLocked(ruleID string, value float64) *Alert {
	rule, ok := e.rules[ruleID]
	if !ok || !rule.Enabled {
		return nil
	}
	if !rule.Triggered(value) {
		return nil
	}
	if !e.shouldFireLocked(rule.ID, rule.Cooldown) {
		return nil
	}

	// Stamp before any side effect so a concurrent evaluation of the same
	// rule cannot pass the cooldown check with a stale timestamp.
	e.lastFired[rule.ID] = e.now()

	unit := metricUnit(rule.Metric)
	alert := e.createAlertLocked(Alert{
		ID:          rule.ID,
		Severity:    rule.Severity,
		Component:   rule.Component,
		Title:       rule.Title,
		Description: fmt.Sprintf("%s is %.2f%s (threshold %.2f%s)", rule.Metric, value, unit, rule.Threshold, unit),
		Metric:      rule.Metric,
		Value:       value,
		Threshold:   rule.Threshold,
	})
	return &alert
}

// shouldFireLocked reports whether an alert id may fire now: true when it
// has never fired, or when more than the cooldown window has elapsed since
// the last firing. The caller must hold e.mu.
func (e *Engine) shouldFireLocked(id string, cooldown time.Duration) bool {
	last, ok := e.lastFired[id]
	if !ok {
		return true
	}
	return e.now().Sub(last) > cooldown
}

// createAlertLocked normalizes the alert, registers it as active (replacing
// any previous active alert with the same id), appends it to history,
// increments the alert counter, and dispatches notifications
// asynchronously. The caller must hold e.mu.
func (e *Engine) createAlertLocked(alert Alert) Alert {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	alert.Timestamp = e.now()
	alert.Status = StatusActive

	stored := alert
	e.active[stored.ID] = &stored
	e.history = append(e.history, &stored)

	if e.sink != nil {
		e.sink.RecordAlert(string(stored.Severity), stored.Component)
	}

	e.logger.WithFields(logrus.Fields{
		"alert_id":  stored.ID,
		"severity":  stored.Severity,
		"component": stored.Component,
		"title":     stored.Title,
	}).Warn("Alert triggered")

	e.dispatch(alert)
	return alert
}

// dispatch hands the alert to the notifier on a separate goroutine so
// delivery never blocks evaluation and failures never reach the caller.
func (e *Engine) dispatch(alert Alert) {
	if e.notifier == nil {
		return
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				e.logger.WithFields(logrus.Fields{
					"alert_id": alert.ID,
					"panic":    rec,
				}).Error("Alert notification panicked")
			}
		}()

		if err := e.notifier.Notify(alert); err != nil {
			e.logger.WithFields(logrus.Fields{
				"alert_id": alert.ID,
				"severity": alert.Severity,
				"title":    alert.Title,
			}).WithError(err).Error("Alert notification delivery failed")
		}
	}()
}

func (e *Engine) appendFired(fired []Alert, alert *Alert) []Alert {
	if alert == nil {
		return fired
	}
	return append(fired, *alert)
}
