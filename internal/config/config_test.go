package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "LOG_LEVEL", "APP_CLIENT_ID", "APP_CLIENT_SECRET", "SESSION_SECRET",
		"REDIRECT_URL", "SPOTIFY_API_URL", "SPOTIFY_ACCOUNTS_URL", "REMOTE_TIMEOUT", "SESSION_TTL")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080/authorized", cfg.RedirectURL)
	assert.Equal(t, 15*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Error(t, cfg.Validate())
}

func TestLoad_SessionSecretFallsBackToClientSecret(t *testing.T) {
	unsetEnv(t, "SESSION_SECRET")
	t.Setenv("APP_CLIENT_SECRET", "secret")

	assert.Equal(t, "secret", Load().SessionSecret)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_CLIENT_ID", "id")
	t.Setenv("APP_CLIENT_SECRET", "secret")
	t.Setenv("SESSION_SECRET", "signing")
	t.Setenv("REDIRECT_URL", "https://example.com/authorized")
	t.Setenv("REMOTE_TIMEOUT", "30")
	t.Setenv("SESSION_TTL", "20m")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "signing", cfg.SessionSecret)
	assert.Equal(t, "https://example.com/authorized", cfg.RedirectURL)
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 20*time.Minute, cfg.SessionTTL)
}

func TestGetDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("REMOTE_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, getDuration("REMOTE_TIMEOUT", 5*time.Second))
}

func TestValidate_ReportsEachMissingSetting(t *testing.T) {
	err := (&Config{ClientID: "id"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.NotContains(t, err.Error(), "APP_CLIENT_ID")
}
