package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockflow-ops/stockflow-backend-go/internal/api"
	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/health"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/monitor"
	"github.com/stockflow-ops/stockflow-backend-go/internal/database"
	"github.com/stockflow-ops/stockflow-backend-go/internal/notifications"
	"github.com/stockflow-ops/stockflow-backend-go/internal/websocket"
	"github.com/stockflow-ops/stockflow-backend-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// WebSocket hub for real-time alert delivery
	hub := websocket.NewHub(log)
	go hub.Run()

	collector := metrics.NewPrometheusCollector(&metrics.Config{
		Enabled: cfg.Monitoring.Enabled,
		Prefix:  "stockflow",
	})
	tracker := metrics.NewRequestTracker()
	systemCollector := metrics.NewSystemCollector(cfg.Monitoring.DiskPath, log)

	auditLog := database.NewNotificationLogRepository(db)

	var channels []notifications.Channel
	channels = append(channels, notifications.NewWebSocketChannel(hub))
	if cfg.Notifications.Webhook != "" {
		timeout, err := time.ParseDuration(cfg.Notifications.WebhookTimeout)
		if err != nil {
			timeout = 10 * time.Second
		}
		channels = append(channels, notifications.NewWebhookChannel(cfg.Notifications.Webhook, timeout))
	}
	if cfg.Notifications.Email != "" {
		channels = append(channels, notifications.NewEmailChannel(cfg.Notifications.Email, cfg.Notifications.SMTP))
	}
	dispatcher := notifications.NewDispatcher(channels, auditLog, collector, log)

	engine, err := alerting.NewEngine(&cfg.Monitoring.Alerts, dispatcher, collector, log)
	if err != nil {
		log.Fatal("Failed to construct alert engine: ", err)
	}

	runner := health.NewRunner(log)
	runner.Register("database", database.Check(db))
	runner.Register("system", systemResourceCheck(systemCollector, &cfg.Monitoring.Alerts.Thresholds))

	monitoring := monitor.NewService(
		&cfg.Monitoring,
		cfg.Retention,
		engine,
		systemCollector,
		tracker,
		runner,
		collector,
		auditLog,
		log,
	)
	if err := monitoring.Start(); err != nil {
		log.Fatal("Failed to start monitoring service: ", err)
	}
	defer monitoring.Stop()

	router := api.NewRouter(api.Dependencies{
		Config:    cfg,
		Engine:    engine,
		Runner:    runner,
		Collector: collector,
		Tracker:   tracker,
		Hub:       hub,
		AuditLog:  auditLog,
		Logger:    log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

// systemResourceCheck reports degraded when any resource crosses its alert
// threshold and unhealthy when collection itself fails.
func systemResourceCheck(collector *metrics.SystemCollector, thresholds *config.AlertsThresholdsConfig) health.CheckFunc {
	return func(ctx context.Context) health.Result {
		snap, err := collector.Snapshot(ctx)
		if err != nil {
			return health.Result{
				Status:  health.StatusUnhealthy,
				Message: fmt.Sprintf("resource collection failed: %v", err),
			}
		}

		details := map[string]interface{}{
			"cpu_percent":    snap.CPU.UsagePercent,
			"memory_percent": snap.Memory.UsagePercent,
			"disk_percent":   snap.Disk.UsagePercent,
		}

		if snap.CPU.UsagePercent > thresholds.CPUPercent ||
			snap.Memory.UsagePercent > thresholds.MemoryPercent ||
			snap.Disk.UsagePercent > thresholds.DiskPercent {
			return health.Result{
				Status:  health.StatusDegraded,
				Message: "one or more resources above threshold",
				Details: details,
			}
		}

		return health.Result{
			Status:  health.StatusHealthy,
			Message: "resources within limits",
			Details: details,
		}
	}
}
