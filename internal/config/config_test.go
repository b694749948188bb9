package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Setenv("PLANNER_ENV_FILE", "does-not-exist.env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "study_planner.db", cfg.DatabaseURL)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "07:30", cfg.DigestAt)
	assert.False(t, cfg.TelegramEnabled())
	assert.NotNil(t, cfg.Location)
}

func TestLoad_env(t *testing.T) {
	t.Setenv("PLANNER_ENV_FILE", "does-not-exist.env")
	t.Setenv("PLANNER_DATABASE_URL", "data/planner.db")
	t.Setenv("PLANNER_SESSION_TTL", "2h")
	t.Setenv("PLANNER_TELEGRAM_TOKEN", " token ")
	t.Setenv("PLANNER_TIMEZONE", "UTC")
	t.Setenv("PLANNER_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/planner.db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.True(t, cfg.TelegramEnabled())
	assert.True(t, cfg.Debug)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad timezone", env: map[string]string{"PLANNER_TIMEZONE": "Mars/Olympus"}},
		{name: "zero ttl", env: map[string]string{"PLANNER_SESSION_TTL": "0s"}},
		{name: "prod without secret", env: map[string]string{"PLANNER_ENV": "prod"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PLANNER_ENV_FILE", "does-not-exist.env")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
