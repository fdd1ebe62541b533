package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the Staytus server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Monitor   MonitorConfig
	Webhook   WebhookConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	DSN string
}

type MonitorConfig struct {
	CycleSchedule  string        // cron spec for the monitor cycle
	RollupSchedule string        // cron spec for the daily roll-up
	ProbeTimeout   time.Duration // hard ceiling per probe
	PingTimeout    time.Duration // echo reply timeout inside the probe ceiling
	RetentionDays  int           // raw observations older than this are pruned
}

type WebhookConfig struct {
	Enabled  bool
	URL      string
	Channel  string
	Username string
	IconURL  string
}

type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from environment variables and returns a
// validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envString("PORT", "3001"),
			Env:  envString("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DATABASE_DSN"),
		},
		Monitor: MonitorConfig{
			CycleSchedule:  envString("MONITOR_CYCLE_SCHEDULE", "* * * * *"),
			RollupSchedule: envString("MONITOR_ROLLUP_SCHEDULE", "0 0 * * *"),
			ProbeTimeout:   envDurationSecs("PROBE_TIMEOUT_SECS", 10*time.Second),
			PingTimeout:    envDurationSecs("PING_TIMEOUT_SECS", 5*time.Second),
			RetentionDays:  envInt("OBSERVATION_RETENTION_DAYS", 7),
		},
		Webhook: WebhookConfig{
			Enabled:  envBool("MATTERMOST_NOTIFICATIONS_ENABLED", false),
			URL:      os.Getenv("MATTERMOST_WEBHOOK_URL"),
			Channel:  os.Getenv("MATTERMOST_CHANNEL"),
			Username: envString("MATTERMOST_USERNAME", "Staytus"),
			IconURL:  envString("MATTERMOST_ICON_URL", "https://raw.githubusercontent.com/status-page/staytus/main/public/favicon.svg"),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: envString("ADMIN_USERNAME", "admin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}

	if cfg.Monitor.RetentionDays <= 0 {
		return nil, fmt.Errorf("OBSERVATION_RETENTION_DAYS must be positive, got %d", cfg.Monitor.RetentionDays)
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}

func envDurationSecs(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}

	return time.Duration(secs) * time.Second
}
