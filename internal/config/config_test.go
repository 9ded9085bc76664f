package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("JWT_TTL_HOURS", "48")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("MINIO_USE_SSL")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("JWT_TTL_HOURS")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 48, cfg.Auth.TokenTTLHours)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("MINIO_BUCKET")
	os.Unsetenv("JWT_TTL_HOURS")
	os.Unsetenv("BCRYPT_COST")

	cfg := Load()

	assert.Equal(t, "notes-files", cfg.MinIO.Bucket)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "42")
	assert.Equal(t, 42, getEnvInt(key, 7))

	os.Setenv(key, "not-a-number")
	assert.Equal(t, 7, getEnvInt(key, 7))

	os.Unsetenv(key)
	assert.Equal(t, 7, getEnvInt(key, 7))
}
