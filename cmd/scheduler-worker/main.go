package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fplduel/fplduel-backend/api"
	"github.com/fplduel/fplduel-backend/internal/cron"
	"github.com/fplduel/fplduel-backend/internal/feed"
	"github.com/fplduel/fplduel-backend/internal/gameweeks"
	"github.com/fplduel/fplduel-backend/internal/matches"
	"github.com/fplduel/fplduel-backend/pkg/config"
	"github.com/fplduel/fplduel-backend/pkg/db"
	"github.com/fplduel/fplduel-backend/pkg/logger"
	"github.com/fplduel/fplduel-backend/pkg/metrics"
	"github.com/fplduel/fplduel-backend/pkg/migrate"
	"github.com/fplduel/fplduel-backend/pkg/redis"
)

const lockKeyFormat = "fplduel:scheduler-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "scheduler-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "scheduler-worker"

	logg = logger.New(logger.Options{
		ServiceName: "scheduler-worker",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler lock", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	acquired, err := lock.Acquire(ctx)
	if err != nil {
		logg.Error(ctx, "failed to acquire scheduler lock", err)
		os.Exit(1)
	}
	if !acquired {
		logg.Warn(ctx, "another scheduler worker holds the lock; exiting")
		os.Exit(1)
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			logg.Error(ctx, "failed to release scheduler lock", err)
		}
	}()

	service, err := buildScheduler(cfg, logg, dbClient)
	if err != nil {
		logg.Error(ctx, "failed to build scheduler", err)
		os.Exit(1)
	}

	handler := api.NewHandler(api.HandlerParams{
		Config: cfg,
		Logger: logg,
		Pingers: map[string]api.Pinger{
			"db":    dbClient,
			"redis": redisClient,
		},
	})
	go func() {
		if err := api.Serve(ctx, cfg.App.MetricsPort, handler, logg); err != nil {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	logg.Info(ctx, "starting scheduler worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "scheduler worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "scheduler worker shutting down gracefully")
}

func buildScheduler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*cron.Service, error) {
	gameweekService, err := gameweeks.NewService(gameweeks.NewRepository(dbClient.DB()))
	if err != nil {
		return nil, fmt.Errorf("gameweeks service: %w", err)
	}
	matchRepo := matches.NewRepository(dbClient.DB())
	feedClient := feed.NewClient(
		feed.WithBaseURL(cfg.Feed.BaseURL),
		feed.WithTimeout(cfg.Feed.Timeout),
	)

	syncJob, err := cron.NewGameweekSyncJob(cron.GameweekSyncJobParams{
		Logger:    logg,
		Feed:      feedClient,
		Gameweeks: gameweekService,
	})
	if err != nil {
		return nil, fmt.Errorf("gameweek sync job: %w", err)
	}
	liveJob, err := cron.NewMatchLiveJob(cron.MatchLiveJobParams{
		Logger:    logg,
		Gameweeks: gameweekService,
		Matches:   matchRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("match live job: %w", err)
	}
	finishJob, err := cron.NewMatchFinishJob(cron.MatchFinishJobParams{
		Logger:    logg,
		Gameweeks: gameweekService,
		Matches:   matchRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("match finish job: %w", err)
	}

	registry := cron.NewRegistry(
		cron.Entry{Spec: cfg.Cron.GameweekSyncSpec, Job: syncJob},
		cron.Entry{Spec: cfg.Cron.MatchLiveSpec, Job: liveJob},
		cron.Entry{Spec: cfg.Cron.MatchFinishSpec, Job: finishJob},
	)

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
	})
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
