package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Jwt.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Jwt.Expiry)
	assert.Equal(t, 2.5, cfg.Anomaly.Threshold)
	assert.Equal(t, 3, cfg.Anomaly.MinSamples)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("ANOMALY_THRESHOLD", "3.5")
	t.Setenv("JWT_EXPIRY", "1h")

	cfg, err := Load("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3.5, cfg.Anomaly.Threshold)
	assert.Equal(t, time.Hour, cfg.Jwt.Expiry)
}

func TestLoadRequiresJwtSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "placeholder") // register restore
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load("nonexistent.env")
	assert.Error(t, err)
}
