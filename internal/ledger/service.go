package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/fplduel/fplduel-backend/pkg/enums"
	"gorm.io/gorm"
)

// Service records ledger entries for d_coin movements.
type Service interface {
	RecordEntry(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.Transaction, error)
	BalanceDelta(ctx context.Context, ownerID int) (int, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data a ledger entry requires.
type RecordEntryInput struct {
	OwnerID  int                   `json:"owner_id"`
	Type     enums.TransactionType `json:"type"`
	Flag     enums.TransactionFlag `json:"flag"`
	DCoin    int                   `json:"d_coin"`
	Message  string                `json:"message"`
	Metadata json.RawMessage       `json:"metadata"`
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

// RecordEntry writes one entry, inside tx when provided so the entry commits
// or rolls back with the balance mutation it describes.
func (s *service) RecordEntry(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.Transaction, error) {
	if input.OwnerID <= 0 {
		return nil, fmt.Errorf("owner id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid transaction type %q", input.Type)
	}
	if !input.Flag.IsValid() {
		return nil, fmt.Errorf("invalid transaction flag %q", input.Flag)
	}
	if input.DCoin <= 0 {
		return nil, fmt.Errorf("d_coin amount must be positive")
	}

	entry := &models.Transaction{
		OwnerID:  input.OwnerID,
		Type:     input.Type,
		Flag:     input.Flag,
		DCoin:    input.DCoin,
		Metadata: input.Metadata,
	}
	if input.Message != "" {
		message := input.Message
		entry.Message = &message
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// BalanceDelta sums the signed deltas of every entry for the owner. It is the
// reconstruction the audit invariant promises: initial balance plus this sum
// equals the current balance.
func (s *service) BalanceDelta(ctx context.Context, ownerID int) (int, error) {
	if ownerID <= 0 {
		return 0, fmt.Errorf("owner id is required")
	}
	entries, err := s.repo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, entry := range entries {
		total += entry.SignedDelta()
	}
	return total, nil
}
