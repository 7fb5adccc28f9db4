package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	WebSocket     WebSocketConfig     `mapstructure:"websocket"`
	Monitoring    MonitoringConfig    `mapstructure:"monitoring"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Retention     RetentionConfig     `mapstructure:"retention"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WebSocketConfig struct {
	PingInterval int `mapstructure:"ping_interval"`
	PongTimeout  int `mapstructure:"pong_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MonitoringConfig contains monitoring and metrics configuration
type MonitoringConfig struct {
	Enabled    bool                       `mapstructure:"enabled"`
	Interval   string                     `mapstructure:"interval"`
	DiskPath   string                     `mapstructure:"disk_path"`
	Alerts     AlertsConfig               `mapstructure:"alerts"`
	Prometheus MonitoringPrometheusConfig `mapstructure:"prometheus"`
}

// AlertsConfig contains alert engine configuration
type AlertsConfig struct {
	Enabled         bool                   `mapstructure:"enabled"`
	CooldownMinutes int                    `mapstructure:"cooldown_minutes"`
	Thresholds      AlertsThresholdsConfig `mapstructure:"thresholds"`
}

// AlertsThresholdsConfig contains alert threshold configuration
type AlertsThresholdsConfig struct {
	CPUPercent       float64 `mapstructure:"cpu_percent"`
	MemoryPercent    float64 `mapstructure:"memory_percent"`
	DiskPercent      float64 `mapstructure:"disk_percent"`
	ResponseTimeMs   float64 `mapstructure:"response_time_ms"`
	ErrorRatePercent float64 `mapstructure:"error_rate_percent"`
}

// MonitoringPrometheusConfig contains Prometheus exposition configuration
type MonitoringPrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// NotificationsConfig contains notification channel configuration. A channel
// is enabled when its destination is non-empty.
type NotificationsConfig struct {
	Email          string     `mapstructure:"email"`
	Webhook        string     `mapstructure:"webhook"`
	WebhookTimeout string     `mapstructure:"webhook_timeout"`
	SMTP           SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig contains SMTP relay configuration for email notifications
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

// RetentionConfig controls how long historical records are kept
type RetentionConfig struct {
	AlertDays int `mapstructure:"alert_days"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("logging.level", "LOG_LEVEL")
	viper.BindEnv("monitoring.alerts.enabled", "ALERTS_ENABLED")
	viper.BindEnv("notifications.email", "ALERT_EMAIL")
	viper.BindEnv("notifications.webhook", "ALERT_WEBHOOK_URL")
	viper.BindEnv("notifications.smtp.host", "SMTP_HOST")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("database.path", "./data/stockflow.db")
	viper.SetDefault("database.migrations_path", "./migrations")
	viper.SetDefault("database.max_connections", 10)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("websocket.ping_interval", 54)
	viper.SetDefault("websocket.pong_timeout", 60)
	viper.SetDefault("websocket.write_timeout", 10)

	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.interval", "30s")
	viper.SetDefault("monitoring.disk_path", "/")
	viper.SetDefault("monitoring.alerts.enabled", true)
	viper.SetDefault("monitoring.alerts.cooldown_minutes", 15)
	viper.SetDefault("monitoring.alerts.thresholds.cpu_percent", 80.0)
	viper.SetDefault("monitoring.alerts.thresholds.memory_percent", 85.0)
	viper.SetDefault("monitoring.alerts.thresholds.disk_percent", 90.0)
	viper.SetDefault("monitoring.alerts.thresholds.response_time_ms", 1000.0)
	viper.SetDefault("monitoring.alerts.thresholds.error_rate_percent", 5.0)
	viper.SetDefault("monitoring.prometheus.enabled", true)
	viper.SetDefault("monitoring.prometheus.path", "/metrics")

	viper.SetDefault("notifications.webhook_timeout", "10s")
	viper.SetDefault("notifications.smtp.port", 587)

	viper.SetDefault("retention.alert_days", 30)
}

// Validate validates the configuration for completeness and correctness
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, "server.port must be between 1 and 65535")
	}
	if c.Server.Host == "" {
		errors = append(errors, "server.host is required")
	}

	if c.Database.Path == "" {
		errors = append(errors, "database.path is required")
	}

	if c.Monitoring.Alerts.CooldownMinutes < 0 {
		errors = append(errors, "monitoring.alerts.cooldown_minutes must not be negative")
	}

	if c.Monitoring.Alerts.Enabled {
		t := c.Monitoring.Alerts.Thresholds
		if t.CPUPercent <= 0 || t.MemoryPercent <= 0 || t.DiskPercent <= 0 {
			errors = append(errors, "monitoring.alerts.thresholds percentages must be greater than 0 when alerts are enabled")
		}
		if t.ResponseTimeMs <= 0 {
			errors = append(errors, "monitoring.alerts.thresholds.response_time_ms must be greater than 0 when alerts are enabled")
		}
		if t.ErrorRatePercent <= 0 {
			errors = append(errors, "monitoring.alerts.thresholds.error_rate_percent must be greater than 0 when alerts are enabled")
		}
	}

	if c.Notifications.Email != "" && c.Notifications.SMTP.Host == "" {
		errors = append(errors, "notifications.smtp.host is required when notifications.email is set")
	}

	if c.Retention.AlertDays < 1 {
		errors = append(errors, "retention.alert_days must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errors, "; "))
	}

	return nil
}
