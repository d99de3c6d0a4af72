package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 6, cfg.Limits.IdeaRequests)
		assert.Equal(t, 60*time.Second, cfg.Limits.IdeaWindow)
		assert.Equal(t, 50, cfg.Limits.SessionCapacity)
	})

	t.Run("reads overrides from environment", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("LIMITS_IDEA_REQUESTS", "10")
		t.Setenv("LIMITS_IDEA_WINDOW", "30s")
		t.Setenv("LIMITS_SESSION_CAPACITY", "12")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 10, cfg.Limits.IdeaRequests)
		assert.Equal(t, 30*time.Second, cfg.Limits.IdeaWindow)
		assert.Equal(t, 12, cfg.Limits.SessionCapacity)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-port")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		t.Setenv("LIMITS_IDEA_WINDOW", "soon")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestAppConfig_EnvHelpers(t *testing.T) {
	assert.True(t, AppConfig{Env: "dev"}.IsDevelopment())
	assert.True(t, AppConfig{Env: "development"}.IsDevelopment())
	assert.True(t, AppConfig{Env: "prod"}.IsProduction())
	assert.False(t, AppConfig{Env: "prod"}.IsDevelopment())
}

func TestDatabaseEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.DatabaseEnabled())

	cfg.Database.Host = "localhost"
	cfg.Database.Password = "secret"
	assert.True(t, cfg.DatabaseEnabled())
}
