// Package config loads server settings from CARDWAR_ prefixed environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/cardwar/internal/api"
	"github.com/mcoot/cardwar/internal/services/auth"
	redisstorage "github.com/mcoot/cardwar/internal/storage/redis"
)

// Prefix is prepended to every variable name
const Prefix = "CARDWAR_"

// Config is the full server configuration
type Config struct {
	HTTP      HTTPConfig
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Storage   StorageConfig
	Auth      AuthConfig
	// OTELEndpoint enables trace export when set, e.g. http://localhost:4318
	OTELEndpoint string `env:"OTEL_ENDPOINT"`
	// HubCleanupInterval is how often idle event hubs are closed
	HubCleanupInterval time.Duration `env:"HUB_CLEANUP_INTERVAL" envDefault:"1m"`
}

type HTTPConfig struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type StorageConfig struct {
	Type              string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL          string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisPoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	GuestUserTTL      time.Duration `env:"GUEST_USER_TTL" envDefault:"24h"`
	RoomTTL           time.Duration `env:"ROOM_TTL" envDefault:"6h"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"cardwar-dev-secret"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"cardwar"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load parses the process environment
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("%sPORT out of range: %d", Prefix, c.HTTP.Port))
	}
	switch c.Storage.Type {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("%sSTORAGE_TYPE must be memory or redis, got %q", Prefix, c.Storage.Type))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%sLOG_FORMAT must be json or text, got %q", Prefix, c.LogFormat))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("%sJWT_SECRET must not be empty", Prefix))
	}
	return errors.Join(errs...)
}

// SlogLevel converts LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%sLOG_LEVEL: %w", Prefix, err)
	}
	return level, nil
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	return api.ServerConfig{
		Host:            c.HTTP.Host,
		Port:            c.HTTP.Port,
		ReadTimeout:     c.HTTP.ReadTimeout,
		WriteTimeout:    c.HTTP.WriteTimeout,
		IdleTimeout:     c.HTTP.IdleTimeout,
		ShutdownTimeout: c.HTTP.ShutdownTimeout,
	}
}

// Redis returns the Redis backend settings
func (c Config) Redis() redisstorage.Config {
	return redisstorage.Config{
		URL:          c.Storage.RedisURL,
		PoolSize:     c.Storage.RedisPoolSize,
		MinIdleConns: c.Storage.RedisMinIdleConns,
		GuestUserTTL: c.Storage.GuestUserTTL,
		RoomTTL:      c.Storage.RoomTTL,
	}
}

// AuthService returns the token settings
func (c Config) AuthService() auth.Config {
	return auth.Config{
		Secret:   c.Auth.JWTSecret,
		Issuer:   c.Auth.JWTIssuer,
		TokenTTL: c.Auth.TokenTTL,
	}
}
