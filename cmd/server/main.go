package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/battleship-go/internal/api"
	"github.com/mcoot/battleship-go/internal/config"
	"github.com/mcoot/battleship-go/internal/factory"
	redisstorage "github.com/mcoot/battleship-go/internal/storage/redis"
)

// envFlags maps environment variables to the flags that override them
var envFlags = map[string]string{
	"BSHIP_HOST":           "host",
	"BSHIP_PORT":           "port",
	"BSHIP_DEBUG":          "debug",
	"STORAGE_TYPE":         "storage",
	"REDIS_URL":            "redis-url",
	"BSHIP_ALLOWED_ORIGIN": "allowed-origin",
}

func main() {
	// Bad environment values are only fatal when no flag replaces them
	cfg, envErr := config.LoadFromEnv()

	rootCmd := &cobra.Command{
		Use:          "bship-server",
		Short:        "Battleship game server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := config.Unresolved(envErr, func(key string) bool {
				flag, ok := envFlags[key]
				return ok && cmd.Flags().Changed(flag)
			})
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	rootCmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "Listen host (env: BSHIP_HOST)")
	rootCmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Listen port (env: BSHIP_PORT)")
	rootCmd.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging (env: BSHIP_DEBUG)")
	rootCmd.Flags().StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Storage backend: memory, redis (env: STORAGE_TYPE)")
	rootCmd.Flags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: REDIS_URL)")
	rootCmd.Flags().StringVar(&cfg.AllowedOrigin, "allowed-origin", cfg.AllowedOrigin, "Allowed websocket origin (env: BSHIP_ALLOWED_ORIGIN)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.ServerConfig) error {
	// Set up logging with JSON output
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
	}
	factoryCfg.WebsocketConfig.AllowedOrigin = cfg.AllowedOrigin

	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Coordinator:      app.Coordinator,
		FleetService:     app.FleetService,
		BotService:       app.BotService,
		Metrics:          app.Metrics,
		WebsocketHandler: app.WebsocketHandler,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			_ = app.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Websocket connections are hijacked, so close them before draining HTTP
		if err := app.Close(context.Background()); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
