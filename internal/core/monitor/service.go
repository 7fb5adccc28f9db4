package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/health"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
)

// AuditLog prunes old notification delivery records
type AuditLog interface {
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

// Service is the periodic driver for the alert engine. On each tick it
// collects fresh system and application metrics, runs the health checks, and
// feeds all three into the engine's evaluation entry points. The engine
// itself never schedules anything.
type Service struct {
	cfg       *config.MonitoringConfig
	retention config.RetentionConfig
	logger    *logrus.Logger

	engine    *alerting.Engine
	system    *metrics.SystemCollector
	tracker   *metrics.RequestTracker
	runner    *health.Runner
	collector metrics.Collector
	auditLog  AuditLog

	cron *cron.Cron
}

// NewService wires the monitoring loop together. auditLog may be nil when no
// delivery log is kept.
func NewService(
	cfg *config.MonitoringConfig,
	retention config.RetentionConfig,
	engine *alerting.Engine,
	system *metrics.SystemCollector,
	tracker *metrics.RequestTracker,
	runner *health.Runner,
	collector metrics.Collector,
	auditLog AuditLog,
	logger *logrus.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		retention: retention,
		logger:    logger,
		engine:    engine,
		system:    system,
		tracker:   tracker,
		runner:    runner,
		collector: collector,
		auditLog:  auditLog,
		cron:      cron.New(),
	}
}

// Start schedules the evaluation tick and the daily retention purge
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("Monitoring is disabled")
		return nil
	}

	interval, err := time.ParseDuration(s.cfg.Interval)
	if err != nil || interval <= 0 {
		return fmt.Errorf("invalid monitoring interval %q", s.cfg.Interval)
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.runEvaluation); err != nil {
		return fmt.Errorf("failed to schedule evaluation: %w", err)
	}

	if _, err := s.cron.AddFunc("@daily", s.runRetentionPurge); err != nil {
		return fmt.Errorf("failed to schedule retention purge: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("interval", interval.String()).Info("Monitoring service started")
	return nil
}

// Stop halts the schedule and waits for a running tick to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Monitoring service stopped")
}

// runEvaluation performs one full evaluation pass
func (s *Service) runEvaluation() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var fired []alerting.Alert

	snap, err := s.system.Snapshot(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("System metrics collection failed")
	} else {
		if s.collector != nil {
			s.collector.RecordSystemResource(snap.CPU.UsagePercent, snap.Memory.UsagePercent, snap.Disk.UsagePercent)
		}
		fired = append(fired, s.engine.EvaluateSystemMetrics(snap)...)
	}

	app := s.tracker.Snapshot()
	fired = append(fired, s.engine.EvaluateApplicationMetrics(app)...)

	results := s.runner.RunAll(ctx)
	fired = append(fired, s.engine.EvaluateHealthChecks(results)...)

	if len(fired) > 0 {
		s.logger.WithField("count", len(fired)).Info("Evaluation pass triggered alerts")
	}
}

// runRetentionPurge drops alert history entries and notification delivery
// records older than the retention window.
func (s *Service) runRetentionPurge() {
	removed := s.engine.ClearOldAlerts(s.retention.AlertDays)

	var purged int64
	if s.auditLog != nil {
		cutoff := time.Now().AddDate(0, 0, -s.retention.AlertDays)
		n, err := s.auditLog.PurgeOlderThan(cutoff)
		if err != nil {
			s.logger.WithError(err).Warn("Notification log purge failed")
		} else {
			purged = n
		}
	}

	s.logger.WithFields(logrus.Fields{
		"removed":              removed,
		"purged_notifications": purged,
		"retention_days":       s.retention.AlertDays,
	}).Debug("Retention purge completed")
}
