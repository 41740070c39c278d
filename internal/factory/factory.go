package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/cardwar/internal/dependencies/clock"
	"github.com/mcoot/cardwar/internal/dependencies/random"
	"github.com/mcoot/cardwar/internal/services/auth"
	"github.com/mcoot/cardwar/internal/services/room"
	"github.com/mcoot/cardwar/internal/services/session"
	"github.com/mcoot/cardwar/internal/services/war"
	"github.com/mcoot/cardwar/internal/storage"
	"github.com/mcoot/cardwar/internal/storage/memory"
	redisstorage "github.com/mcoot/cardwar/internal/storage/redis"
	"github.com/mcoot/cardwar/internal/transport/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	Resolver       *war.Resolver
	SessionManager *session.Manager
	RoomController *room.Controller
	AuthService    *auth.Service
	HubManager     *sse.HubManager

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig is optional; zero fields take auth defaults
	AuthConfig auth.Config
	// Logger is optional; nil discards logs
	Logger *slog.Logger
	// StorageType is "memory" (default) or "redis"
	StorageType string
	// RedisConfig is required when StorageType is "redis"
	RedisConfig *redisstorage.Config
}

// New wires the application from cfg
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", cfg.StorageType)
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, logger), nil
}

// newWithDependencies wires an App around the given dependencies
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	resolver := war.New(logger)
	sessions := session.NewManager(resolver, clk, rnd, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Resolver:       resolver,
		SessionManager: sessions,
		RoomController: room.NewController(store, sessions, clk, logger),
		AuthService:    auth.New(store, clk, authCfg, logger),
		HubManager:     sse.NewHubManager(logger),
		logger:         logger,
	}
}

// Close ends every live session, disconnects event streams and releases
// the storage backend
func (a *App) Close(ctx context.Context) error {
	ended := a.SessionManager.Shutdown(ctx)
	a.HubManager.CloseAll()
	a.logger.Info("application closed", slog.Int("sessions_ended", ended))

	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
