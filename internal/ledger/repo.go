package ledger

import (
	"context"

	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for ledger entries. Entries are append-only;
// there is deliberately no update or delete surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.Transaction) error
	ListByOwnerID(ctx context.Context, ownerID int) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.Transaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByOwnerID(ctx context.Context, ownerID int) ([]models.Transaction, error) {
	var entries []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
