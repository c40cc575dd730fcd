package enums

import "fmt"

// TransactionType maps to the transaction_type_enum enum in Postgres.
type TransactionType string

const (
	TransactionTypeCreateMatch TransactionType = "create_match"
	TransactionTypeJoinMatch   TransactionType = "join_match"
	TransactionTypeMatchPayout TransactionType = "match_payout"
	TransactionTypeRefund      TransactionType = "refund"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeCreateMatch,
	TransactionTypeJoinMatch,
	TransactionTypeMatchPayout,
	TransactionTypeRefund,
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
