package gameweeks

import (
	"context"
	"fmt"

	"github.com/fplduel/fplduel-backend/internal/feed"
	"github.com/fplduel/fplduel-backend/pkg/db/models"
)

// Service reconciles externally supplied gameweek records into local state.
type Service interface {
	IngestEvents(ctx context.Context, events []feed.Event) error
	Current(ctx context.Context) (*models.GameweekStatus, error)
	Next(ctx context.Context) (*models.GameweekStatus, error)
	FinishedPrevious(ctx context.Context) (*models.GameweekStatus, error)
}

type service struct {
	repo Repository
}

// NewService wires a gameweek service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gameweeks repository required")
	}
	return &service{repo: repo}, nil
}

// IngestEvents upserts every feed record keyed by gameweek number. The batch
// either fully applies or nothing does; a retry next tick starts from scratch.
func (s *service) IngestEvents(ctx context.Context, events []feed.Event) error {
	rows := make([]models.GameweekStatus, 0, len(events))
	for _, event := range events {
		rows = append(rows, toRow(event))
	}
	if err := s.repo.UpsertAll(ctx, rows); err != nil {
		return fmt.Errorf("upserting %d gameweeks: %w", len(rows), err)
	}
	return nil
}

func (s *service) Current(ctx context.Context) (*models.GameweekStatus, error) {
	return s.repo.FindCurrent(ctx)
}

func (s *service) Next(ctx context.Context) (*models.GameweekStatus, error) {
	return s.repo.FindNext(ctx)
}

func (s *service) FinishedPrevious(ctx context.Context) (*models.GameweekStatus, error) {
	return s.repo.FindFinishedPrevious(ctx)
}

func toRow(event feed.Event) models.GameweekStatus {
	row := models.GameweekStatus{
		Gameweek:          event.ID,
		Name:              event.Name,
		AverageEntryScore: event.AverageEntryScore,
		DataChecked:       event.DataChecked,
		DeadlineTime:      event.DeadlineAt(),
		DeadlineTimeEpoch: event.DeadlineTimeEpoch,
		Finished:          event.Finished,
		IsCurrent:         event.IsCurrent,
		IsNext:            event.IsNext,
		IsPrevious:        event.IsPrevious,
	}
	if event.HighestScoringEntry != nil {
		row.HighestScoringEntry = *event.HighestScoringEntry
	}
	return row
}
