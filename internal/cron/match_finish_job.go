package cron

import (
	"context"
	"fmt"

	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/fplduel/fplduel-backend/pkg/logger"
)

type finishedGameweekSource interface {
	FinishedPrevious(ctx context.Context) (*models.GameweekStatus, error)
}

type finishPromoter interface {
	PromoteLiveToFinished(ctx context.Context, gameweek int) (int64, error)
}

// MatchFinishJobParams configures the live-to-finished promotion job.
type MatchFinishJobParams struct {
	Logger    *logger.Logger
	Gameweeks finishedGameweekSource
	Matches   finishPromoter
}

// NewMatchFinishJob constructs the job that closes out matches once the feed
// marks their gameweek finished.
func NewMatchFinishJob(params MatchFinishJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Gameweeks == nil {
		return nil, fmt.Errorf("gameweeks service required")
	}
	if params.Matches == nil {
		return nil, fmt.Errorf("match repository required")
	}
	return &matchFinishJob{
		logg:      params.Logger,
		gameweeks: params.Gameweeks,
		matches:   params.Matches,
	}, nil
}

type matchFinishJob struct {
	logg      *logger.Logger
	gameweeks finishedGameweekSource
	matches   finishPromoter
}

func (j *matchFinishJob) Name() string { return "match-finish" }

// Run promotes live matches of the most recent finished gameweek. The feed
// flips finished only after scores are final, so promotion never races the
// scoring window.
func (j *matchFinishJob) Run(ctx context.Context) error {
	previous, err := j.gameweeks.FinishedPrevious(ctx)
	if err != nil {
		return fmt.Errorf("loading finished gameweek: %w", err)
	}
	if previous == nil {
		j.logg.Info(ctx, "no finished previous gameweek; skipping finish promotion")
		return nil
	}
	promoted, err := j.matches.PromoteLiveToFinished(ctx, previous.Gameweek)
	if err != nil {
		return fmt.Errorf("promoting matches to finished: %w", err)
	}
	logCtx := j.logg.WithGameweek(ctx, previous.Gameweek)
	logCtx = j.logg.WithField(logCtx, "promoted", promoted)
	j.logg.Info(logCtx, "finish promotion complete")
	return nil
}
