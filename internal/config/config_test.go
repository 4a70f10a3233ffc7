package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "noreply@smartcity.local", cfg.Email.FromAddress)
	assert.Equal(t, "Smart City Administration", cfg.Email.FromName)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "file://migrations", cfg.Database.MigrationPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "sendgrid", cfg.Email.Provider)
	assert.Equal(t, "SG.test", cfg.Email.SendGrid.APIKey)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("DEBUG", "maybe")
	t.Setenv("TOKEN_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}
