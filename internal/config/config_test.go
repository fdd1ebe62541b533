package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/staytus_test")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "* * * * *", cfg.Monitor.CycleSchedule)
	assert.Equal(t, "0 0 * * *", cfg.Monitor.RollupSchedule)
	assert.Equal(t, 10*time.Second, cfg.Monitor.ProbeTimeout)
	assert.Equal(t, 5*time.Second, cfg.Monitor.PingTimeout)
	assert.Equal(t, 7, cfg.Monitor.RetentionDays)
	assert.False(t, cfg.Webhook.Enabled)
	assert.Equal(t, "Staytus", cfg.Webhook.Username)
	assert.Equal(t, "admin", cfg.Bootstrap.AdminUsername)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/staytus_test")
	t.Setenv("PORT", "8080")
	t.Setenv("MONITOR_CYCLE_SCHEDULE", "*/5 * * * *")
	t.Setenv("PROBE_TIMEOUT_SECS", "30")
	t.Setenv("OBSERVATION_RETENTION_DAYS", "14")
	t.Setenv("MATTERMOST_NOTIFICATIONS_ENABLED", "true")
	t.Setenv("MATTERMOST_WEBHOOK_URL", "https://mm.example.com/hooks/abc")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "*/5 * * * *", cfg.Monitor.CycleSchedule)
	assert.Equal(t, 30*time.Second, cfg.Monitor.ProbeTimeout)
	assert.Equal(t, 14, cfg.Monitor.RetentionDays)
	assert.True(t, cfg.Webhook.Enabled)
	assert.Equal(t, "https://mm.example.com/hooks/abc", cfg.Webhook.URL)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/staytus_test")
	t.Setenv("PROBE_TIMEOUT_SECS", "not-a-number")
	t.Setenv("OBSERVATION_RETENTION_DAYS", "nope")
	t.Setenv("MATTERMOST_NOTIFICATIONS_ENABLED", "maybe")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Monitor.ProbeTimeout)
	assert.Equal(t, 7, cfg.Monitor.RetentionDays)
	assert.False(t, cfg.Webhook.Enabled)
}
