package enums

import "fmt"

// TransactionFlag records the direction of a d_coin movement.
type TransactionFlag string

const (
	TransactionFlagUp   TransactionFlag = "up"
	TransactionFlagDown TransactionFlag = "down"
)

// IsValid reports whether the value matches the canonical flag enum.
func (f TransactionFlag) IsValid() bool {
	return f == TransactionFlagUp || f == TransactionFlagDown
}

// SignedAmount applies the flag direction to a positive amount.
func (f TransactionFlag) SignedAmount(amount int) int {
	if f == TransactionFlagDown {
		return -amount
	}
	return amount
}

// ParseTransactionFlag converts raw input into TransactionFlag.
func ParseTransactionFlag(value string) (TransactionFlag, error) {
	switch TransactionFlag(value) {
	case TransactionFlagUp:
		return TransactionFlagUp, nil
	case TransactionFlagDown:
		return TransactionFlagDown, nil
	}
	return "", fmt.Errorf("invalid transaction flag %q", value)
}
