package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.CSRF.Secret)
	assert.True(t, cfg.CSRF.SecureCookies)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, DefaultSweepSchedule, cfg.Sweep.Schedule)
	assert.True(t, cfg.Sweep.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=localhost dbname=library")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SWEEP_SCHEDULE", "*/5 * * * *")
	t.Setenv("TASK_RELEASE_AFTER", "30s")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=library", cfg.Database.DSN)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "*/5 * * * *", cfg.Sweep.Schedule)
	assert.Equal(t, 30*time.Second, cfg.Tasks.ReleaseAfter)
	assert.False(t, cfg.Metrics.Enabled)
}
