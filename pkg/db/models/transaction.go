package models

import (
	"encoding/json"
	"time"

	"github.com/fplduel/fplduel-backend/pkg/enums"
)

// Transaction is an immutable ledger entry. One row exists for every d_coin
// mutation on a user; rows are never updated or deleted.
type Transaction struct {
	ID          int                   `gorm:"column:id;primaryKey;autoIncrement"`
	CreatedDate time.Time             `gorm:"column:created_date;autoCreateTime"`
	OwnerID     int                   `gorm:"column:owner_id;not null"`
	Type        enums.TransactionType `gorm:"column:type;type:transaction_type_enum;not null"`
	Flag        enums.TransactionFlag `gorm:"column:flag;type:transaction_flag_enum;not null"`
	DCoin       int                   `gorm:"column:d_coin;not null"`
	Message     *string               `gorm:"column:message"`
	Metadata    json.RawMessage       `gorm:"column:metadata;type:jsonb"`
}

func (Transaction) TableName() string { return "transaction" }

// SignedDelta is the balance change this entry records.
func (t Transaction) SignedDelta() int {
	return t.Flag.SignedAmount(t.DCoin)
}
