package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Zero(t, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.OTELEndpoint)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"CARDWAR_PORT":          "9090",
		"CARDWAR_LOG_LEVEL":     "debug",
		"CARDWAR_STORAGE_TYPE":  "redis",
		"CARDWAR_REDIS_URL":     "redis://cache:6379/1",
		"CARDWAR_ROOM_TTL":      "30m",
		"CARDWAR_JWT_SECRET":    "s3cret",
		"CARDWAR_TOKEN_TTL":     "1h",
		"CARDWAR_OTEL_ENDPOINT": "http://collector:4318",
		"CARDWAR_WRITE_TIMEOUT": "10s",
		"UNPREFIXED_IS_IGNORED": "x",
		"PORT":                  "1",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server().Port)
	assert.Equal(t, 10*time.Second, cfg.Server().WriteTimeout)
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	redis := cfg.Redis()
	assert.Equal(t, "redis://cache:6379/1", redis.URL)
	assert.Equal(t, 30*time.Minute, redis.RoomTTL)
	assert.Equal(t, 10, redis.PoolSize)

	authCfg := cfg.AuthService()
	assert.Equal(t, "s3cret", authCfg.Secret)
	assert.Equal(t, time.Hour, authCfg.TokenTTL)
	assert.Equal(t, "http://collector:4318", cfg.OTELEndpoint)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unparseable port": {"CARDWAR_PORT": "eighty"},
		"port range":       {"CARDWAR_PORT": "70000"},
		"storage type":     {"CARDWAR_STORAGE_TYPE": "postgres"},
		"log level":        {"CARDWAR_LOG_LEVEL": "loud"},
		"log format":       {"CARDWAR_LOG_FORMAT": "xml"},
		"bad duration":     {"CARDWAR_TOKEN_TTL": "soon"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(vars)
			assert.Error(t, err)
		})
	}
}
