package enums

import "fmt"

// ChipRule maps to the chip_rule_enum enum in Postgres.
type ChipRule string

const (
	ChipRuleAllowed    ChipRule = "allowed"
	ChipRuleNotAllowed ChipRule = "not_allowed"
)

// IsValid reports whether the value matches the canonical chip rule enum.
func (r ChipRule) IsValid() bool {
	return r == ChipRuleAllowed || r == ChipRuleNotAllowed
}

// ParseChipRule converts raw input into ChipRule.
func ParseChipRule(value string) (ChipRule, error) {
	switch ChipRule(value) {
	case ChipRuleAllowed:
		return ChipRuleAllowed, nil
	case ChipRuleNotAllowed:
		return ChipRuleNotAllowed, nil
	}
	return "", fmt.Errorf("invalid chip rule %q", value)
}
