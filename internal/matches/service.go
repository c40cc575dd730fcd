package matches

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fplduel/fplduel-backend/internal/ledger"
	"github.com/fplduel/fplduel-backend/internal/users"
	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/fplduel/fplduel-backend/pkg/enums"
	pkgerrors "github.com/fplduel/fplduel-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// txRunner is the transaction boundary the settlement path needs.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the settlement operation: create N matches for a user,
// escrow the stake, and record the ledger entry atomically.
type Service interface {
	CreateMatches(ctx context.Context, input CreateMatchesInput) error
}

// CreateMatchesInput carries already-authenticated settlement input. The
// balance precondition is re-enforced inside the transaction; validator tags
// only cover shape.
type CreateMatchesInput struct {
	CreatorID    int                `validate:"required,min=1"`
	BetAmount    int                `validate:"required,min=1"`
	Quantity     int                `validate:"required,min=1"`
	Gameweek     int                `validate:"required,min=1"`
	ChipRule     enums.ChipRule     `validate:"required"`
	TransferRule enums.TransferRule `validate:"required"`
	IsPrivate    bool
}

// ServiceParams configure the settlement service.
type ServiceParams struct {
	DB      txRunner
	Matches Repository
	Users   users.Repository
	Ledger  ledger.Service
	Season  string
}

type service struct {
	db      txRunner
	matches Repository
	users   users.Repository
	ledger  ledger.Service
	season  string
	check   *validator.Validate
}

// NewService wires the settlement service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Matches == nil {
		return nil, fmt.Errorf("match repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if params.Season == "" {
		return nil, fmt.Errorf("season tag required")
	}
	return &service{
		db:      params.DB,
		matches: params.Matches,
		users:   params.Users,
		ledger:  params.Ledger,
		season:  params.Season,
		check:   validator.New(),
	}, nil
}

// CreateMatches runs the whole settlement as one atomic unit: insert the
// match rows, debit the creator's escrow, record one ledger entry. Any
// failure rolls the whole operation back.
func (s *service) CreateMatches(ctx context.Context, input CreateMatchesInput) error {
	if err := s.validate(input); err != nil {
		return err
	}

	total := input.BetAmount * input.Quantity

	// Friendly pre-check. The authoritative guard is the conditional debit
	// inside the transaction.
	creator, err := s.users.FindByID(ctx, input.CreatorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading creator")
	}
	if creator == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("user %d not found", input.CreatorID))
	}
	if creator.DCoin < total {
		return pkgerrors.New(
			pkgerrors.CodeInsufficientFunds,
			fmt.Sprintf("balance %d, need %d", creator.DCoin, total),
		)
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows := make([]models.Match, 0, input.Quantity)
		for i := 0; i < input.Quantity; i++ {
			rows = append(rows, models.Match{
				Season:       s.season,
				BetAmount:    input.BetAmount,
				OwnerID:      input.CreatorID,
				Gameweek:     input.Gameweek,
				ChipRule:     input.ChipRule,
				TransferRule: input.TransferRule,
				IsPrivate:    input.IsPrivate,
				Status:       enums.MatchStatusNext,
				Metadata:     json.RawMessage(`{}`),
			})
		}
		if err := s.matches.WithTx(tx).CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("inserting matches: %w", err)
		}

		ok, err := s.users.WithTx(tx).Debit(ctx, input.CreatorID, total)
		if err != nil {
			return fmt.Errorf("debiting escrow: %w", err)
		}
		if !ok {
			return pkgerrors.New(
				pkgerrors.CodeInsufficientFunds,
				fmt.Sprintf("balance changed concurrently, need %d", total),
			)
		}

		metadata, err := json.Marshal(map[string]any{
			"quantity":    input.Quantity,
			"on_gameweek": input.Gameweek,
		})
		if err != nil {
			return fmt.Errorf("encoding ledger metadata: %w", err)
		}
		_, err = s.ledger.RecordEntry(ctx, tx, ledger.RecordEntryInput{
			OwnerID:  input.CreatorID,
			Type:     enums.TransactionTypeCreateMatch,
			Flag:     enums.TransactionFlagDown,
			DCoin:    total,
			Message:  fmt.Sprintf("You have created %d matches", input.Quantity),
			Metadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("recording ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeTxAborted, err, "create matches rolled back")
	}
	return nil
}

func (s *service) validate(input CreateMatchesInput) error {
	if err := s.check.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid create matches input")
	}
	if !input.ChipRule.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid chip rule %q", input.ChipRule))
	}
	if !input.TransferRule.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transfer rule %q", input.TransferRule))
	}
	return nil
}
