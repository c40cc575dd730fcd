package cron

import (
	"context"
	"fmt"

	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/fplduel/fplduel-backend/pkg/logger"
)

type currentGameweekSource interface {
	Current(ctx context.Context) (*models.GameweekStatus, error)
}

type livePromoter interface {
	PromoteNextToLive(ctx context.Context, gameweek int) (int64, error)
}

// MatchLiveJobParams configures the next-to-live promotion job.
type MatchLiveJobParams struct {
	Logger    *logger.Logger
	Gameweeks currentGameweekSource
	Matches   livePromoter
}

// NewMatchLiveJob constructs the job that moves the current gameweek's
// pending matches into play.
func NewMatchLiveJob(params MatchLiveJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Gameweeks == nil {
		return nil, fmt.Errorf("gameweeks service required")
	}
	if params.Matches == nil {
		return nil, fmt.Errorf("match repository required")
	}
	return &matchLiveJob{
		logg:      params.Logger,
		gameweeks: params.Gameweeks,
		matches:   params.Matches,
	}, nil
}

type matchLiveJob struct {
	logg      *logger.Logger
	gameweeks currentGameweekSource
	matches   livePromoter
}

func (j *matchLiveJob) Name() string { return "match-live" }

// Run promotes next matches for the current gameweek. Between seasons there
// is no current gameweek and the tick is a no-op.
func (j *matchLiveJob) Run(ctx context.Context) error {
	current, err := j.gameweeks.Current(ctx)
	if err != nil {
		return fmt.Errorf("loading current gameweek: %w", err)
	}
	if current == nil {
		j.logg.Info(ctx, "no current gameweek; skipping live promotion")
		return nil
	}
	promoted, err := j.matches.PromoteNextToLive(ctx, current.Gameweek)
	if err != nil {
		return fmt.Errorf("promoting matches to live: %w", err)
	}
	logCtx := j.logg.WithGameweek(ctx, current.Gameweek)
	logCtx = j.logg.WithField(logCtx, "promoted", promoted)
	j.logg.Info(logCtx, "live promotion complete")
	return nil
}
