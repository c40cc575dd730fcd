package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is the shared storage handle the domain repositories embed. A
// repository clones itself around a transaction by constructing a new Base
// over the tx handle.
type Base struct {
	db *gorm.DB
}

// NewBase binds a Base to the provided GORM connection or transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the bound connection scoped to ctx for cancellation.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
