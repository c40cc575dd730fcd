package gameweeks

import (
	"context"
	"errors"

	"github.com/fplduel/fplduel-backend/internal/repo"
	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mutableColumns are overwritten when re-ingesting an existing gameweek.
// The gameweek number itself is the conflict key and never changes.
var mutableColumns = []string{
	"name",
	"average_entry_score",
	"data_checked",
	"deadline_time",
	"deadline_time_epoch",
	"finished",
	"is_current",
	"is_next",
	"is_previous",
	"highest_scoring_entry",
}

// Repository manages persistence for gameweek status rows.
type Repository interface {
	UpsertAll(ctx context.Context, rows []models.GameweekStatus) error
	FindCurrent(ctx context.Context) (*models.GameweekStatus, error)
	FindNext(ctx context.Context) (*models.GameweekStatus, error)
	FindFinishedPrevious(ctx context.Context) (*models.GameweekStatus, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a gameweek repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// UpsertAll applies the whole batch in one statement with a single conflict
// clause, so overlapping ingestion runs converge instead of losing updates.
func (r *repository) UpsertAll(ctx context.Context, rows []models.GameweekStatus) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gameweek"}},
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		Create(&rows).Error
}

func (r *repository) FindCurrent(ctx context.Context) (*models.GameweekStatus, error) {
	return r.findOne(ctx, "is_current = ?", true)
}

func (r *repository) FindNext(ctx context.Context) (*models.GameweekStatus, error) {
	return r.findOne(ctx, "is_next = ?", true)
}

func (r *repository) FindFinishedPrevious(ctx context.Context) (*models.GameweekStatus, error) {
	return r.findOne(ctx, "is_previous = ? AND finished = ?", true, true)
}

// findOne treats a missing row as (nil, nil): absence is a normal state
// between seasons, not an error.
func (r *repository) findOne(ctx context.Context, query string, args ...any) (*models.GameweekStatus, error) {
	var row models.GameweekStatus
	err := r.DB(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
