package cron

import (
	"context"
	"fmt"

	"github.com/fplduel/fplduel-backend/internal/feed"
	"github.com/fplduel/fplduel-backend/pkg/logger"
)

type eventsSource interface {
	FetchEvents(ctx context.Context) ([]feed.Event, error)
}

type gameweekIngestor interface {
	IngestEvents(ctx context.Context, events []feed.Event) error
}

// GameweekSyncJobParams configures the feed ingestion job.
type GameweekSyncJobParams struct {
	Logger    *logger.Logger
	Feed      eventsSource
	Gameweeks gameweekIngestor
}

// NewGameweekSyncJob constructs the job that mirrors the fantasy feed's
// gameweek table into local storage.
func NewGameweekSyncJob(params GameweekSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("feed client required")
	}
	if params.Gameweeks == nil {
		return nil, fmt.Errorf("gameweeks service required")
	}
	return &gameweekSyncJob{
		logg:      params.Logger,
		feed:      params.Feed,
		gameweeks: params.Gameweeks,
	}, nil
}

type gameweekSyncJob struct {
	logg      *logger.Logger
	feed      eventsSource
	gameweeks gameweekIngestor
}

func (j *gameweekSyncJob) Name() string { return "gameweek-sync" }

// Run fetches the full gameweek list and upserts it. A failed tick leaves
// local state untouched; the next tick retries from scratch.
func (j *gameweekSyncJob) Run(ctx context.Context) error {
	events, err := j.feed.FetchEvents(ctx)
	if err != nil {
		return fmt.Errorf("fetching gameweek events: %w", err)
	}
	if err := j.gameweeks.IngestEvents(ctx, events); err != nil {
		return fmt.Errorf("ingesting gameweek events: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": len(events)})
	j.logg.Info(logCtx, "gameweek sync complete")
	return nil
}
