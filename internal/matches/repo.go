package matches

import (
	"context"

	"github.com/fplduel/fplduel-backend/internal/repo"
	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/fplduel/fplduel-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository manages persistence for matches. Lifecycle promotions are
// set-based updates filtered by status and gameweek, so re-running them is a
// no-op on already-promoted rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, rows []models.Match) error
	PromoteNextToLive(ctx context.Context, gameweek int) (int64, error)
	PromoteLiveToFinished(ctx context.Context, gameweek int) (int64, error)
	CountByStatusAndGameweek(ctx context.Context, status enums.MatchStatus, gameweek int) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a match repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateBatch(ctx context.Context, rows []models.Match) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&rows).Error
}

func (r *repository) PromoteNextToLive(ctx context.Context, gameweek int) (int64, error) {
	return r.promote(ctx, enums.MatchStatusNext, enums.MatchStatusLive, gameweek)
}

func (r *repository) PromoteLiveToFinished(ctx context.Context, gameweek int) (int64, error) {
	return r.promote(ctx, enums.MatchStatusLive, enums.MatchStatusFinished, gameweek)
}

func (r *repository) promote(ctx context.Context, from, to enums.MatchStatus, gameweek int) (int64, error) {
	result := r.DB(ctx).Model(&models.Match{}).
		Where("status = ? AND gameweek = ?", from, gameweek).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *repository) CountByStatusAndGameweek(ctx context.Context, status enums.MatchStatus, gameweek int) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Match{}).
		Where("status = ? AND gameweek = ?", status, gameweek).
		Count(&count).Error
	return count, err
}
