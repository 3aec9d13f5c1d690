package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/battleship-go/internal/config"
	"github.com/mcoot/battleship-go/internal/dependencies/clock"
	"github.com/mcoot/battleship-go/internal/dependencies/ids"
	"github.com/mcoot/battleship-go/internal/dependencies/random"
	"github.com/mcoot/battleship-go/internal/metrics"
	"github.com/mcoot/battleship-go/internal/services/bot"
	"github.com/mcoot/battleship-go/internal/services/fleet"
	"github.com/mcoot/battleship-go/internal/services/room"
	"github.com/mcoot/battleship-go/internal/storage"
	"github.com/mcoot/battleship-go/internal/storage/memory"
	redisstorage "github.com/mcoot/battleship-go/internal/storage/redis"
	"github.com/mcoot/battleship-go/internal/transport/ws"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    ids.Generator

	Metrics *metrics.Metrics

	// Services
	FleetService *fleet.Service
	Coordinator  *room.Coordinator
	BotService   *bot.Service

	// Transport
	Hub              *ws.Hub
	WebsocketHandler *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RoomConfig holds coordinator settings (optional)
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// WebsocketConfig holds transport settings (optional)
	// If zero value, defaults to ws.DefaultConfig()
	WebsocketConfig ws.Config
	// BotConfig holds computer opponent settings (optional)
	// If zero value, defaults to bot.DefaultConfig()
	BotConfig bot.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	roomCfg := cfg.RoomConfig
	if roomCfg.PasscodeCost == 0 {
		roomCfg = room.DefaultConfig()
	}
	wsCfg := cfg.WebsocketConfig
	if wsCfg.SendBufferSize == 0 {
		allowedOrigin := wsCfg.AllowedOrigin
		wsCfg = ws.DefaultConfig()
		wsCfg.AllowedOrigin = allowedOrigin
	}

	botCfg := cfg.BotConfig
	if botCfg == (bot.Config{}) {
		botCfg = bot.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), ids.New(), roomCfg, wsCfg, botCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	idGen ids.Generator,
	roomCfg room.Config,
	wsCfg ws.Config,
	botCfg bot.Config,
	logger *slog.Logger,
) *App {
	m := metrics.New()
	fleetService := fleet.New(idGen, rnd, logger)
	coordinator := room.NewCoordinator(store, clk, m, logger, roomCfg)
	hub := ws.NewHub(coordinator, logger)
	wsHandler := ws.NewHandler(hub, idGen, wsCfg, logger)
	botService := bot.NewService(coordinator, fleetService, idGen, bot.DefaultStrategies(rnd), botCfg, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		IDs:              idGen,
		Metrics:          m,
		FleetService:     fleetService,
		Coordinator:      coordinator,
		BotService:       botService,
		Hub:              hub,
		WebsocketHandler: wsHandler,
	}
}

// Close disconnects every websocket client and bot, then releases the storage backend
func (a *App) Close(ctx context.Context) error {
	a.Hub.Close(ctx)
	a.BotService.Close(ctx)
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
