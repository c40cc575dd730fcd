package enums

import "fmt"

// TransferRule maps to the transfer_rule_enum enum in Postgres.
type TransferRule string

const (
	TransferRuleUnlimited        TransferRule = "unlimited"
	TransferRuleFreeTransferOnly TransferRule = "free_transfer_only"
)

// IsValid reports whether the value matches the canonical transfer rule enum.
func (r TransferRule) IsValid() bool {
	return r == TransferRuleUnlimited || r == TransferRuleFreeTransferOnly
}

// ParseTransferRule converts raw input into TransferRule.
func ParseTransferRule(value string) (TransferRule, error) {
	switch TransferRule(value) {
	case TransferRuleUnlimited:
		return TransferRuleUnlimited, nil
	case TransferRuleFreeTransferOnly:
		return TransferRuleFreeTransferOnly, nil
	}
	return "", fmt.Errorf("invalid transfer rule %q", value)
}
