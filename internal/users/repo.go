package users

import (
	"context"
	"errors"

	"github.com/fplduel/fplduel-backend/internal/repo"
	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for users. Balance mutations are relative
// updates so concurrent movements serialize on the row instead of racing on
// a stale read.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id int) (*models.User, error)
	// Debit subtracts amount from the user's balance and reports whether the
	// balance was sufficient. The guard runs inside the UPDATE itself.
	Debit(ctx context.Context, id int, amount int) (bool, error)
	Credit(ctx context.Context, id int, amount int) error
}

type repository struct {
	repo.Base
}

// NewRepository returns a user repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Debit(ctx context.Context, id int, amount int) (bool, error) {
	result := r.DB(ctx).Model(&models.User{}).
		Where("id = ? AND d_coin >= ?", id, amount).
		Update("d_coin", gorm.Expr("d_coin - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Credit(ctx context.Context, id int, amount int) error {
	return r.DB(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("d_coin", gorm.Expr("d_coin + ?", amount)).Error
}
