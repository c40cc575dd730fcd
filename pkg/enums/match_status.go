package enums

import "fmt"

// MatchStatus maps to the match_status_enum enum in Postgres. Transitions are
// strictly forward: next -> live -> finished.
type MatchStatus string

const (
	MatchStatusNext     MatchStatus = "next"
	MatchStatusLive     MatchStatus = "live"
	MatchStatusFinished MatchStatus = "finished"
)

var validMatchStatuses = []MatchStatus{
	MatchStatusNext,
	MatchStatusLive,
	MatchStatusFinished,
}

// IsValid reports whether the value matches the canonical match status enum.
func (s MatchStatus) IsValid() bool {
	for _, candidate := range validMatchStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMatchStatus converts raw input into MatchStatus.
func ParseMatchStatus(value string) (MatchStatus, error) {
	for _, candidate := range validMatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match status %q", value)
}
