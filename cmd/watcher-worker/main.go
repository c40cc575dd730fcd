package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/fplduel/fplduel-backend/api"
	"github.com/fplduel/fplduel-backend/internal/watcher"
	"github.com/fplduel/fplduel-backend/pkg/config"
	"github.com/fplduel/fplduel-backend/pkg/db"
	"github.com/fplduel/fplduel-backend/pkg/logger"
	"github.com/fplduel/fplduel-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "watcher-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "watcher-worker"

	logg = logger.New(logger.Options{
		ServiceName: "watcher-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := watcher.NewRegistry()
	registry.Register("match_created", logPayloadHandler(logg, "match created"))
	registry.Register("transaction_created", logPayloadHandler(logg, "transaction recorded"))

	listener, err := watcher.NewListener(watcher.ListenerParams{
		Logger:   logg,
		DSN:      cfg.DB.DSN,
		Registry: registry,
		DB:       dbClient.DB(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build listener", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	handler := api.NewHandler(api.HandlerParams{
		Config: cfg,
		Logger: logg,
		Pingers: map[string]api.Pinger{
			"db": dbClient,
		},
	})
	go func() {
		if err := api.Serve(ctx, cfg.App.MetricsPort, handler, logg); err != nil {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	logg.Info(ctx, "starting watcher worker")

	if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "watcher worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "watcher worker shutting down gracefully")
}

func logPayloadHandler(logg *logger.Logger, message string) watcher.Handler {
	return func(ctx context.Context, payload json.RawMessage, _ *gorm.DB) error {
		fields := map[string]any{}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &fields); err != nil {
				return err
			}
		}
		logg.Info(logg.WithFields(ctx, fields), message)
		return nil
	}
}
