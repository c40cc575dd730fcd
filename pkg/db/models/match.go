package models

import (
	"encoding/json"
	"time"

	"github.com/fplduel/fplduel-backend/pkg/enums"
)

// Match is a single wager instance. Created only through the settlement
// transaction; the lifecycle driver mutates status, the join/result handlers
// mutate the opponent/winner columns. Gameweek never changes after creation.
type Match struct {
	ID            int                `gorm:"column:id;primaryKey;autoIncrement"`
	Season        string             `gorm:"column:season;not null"`
	CreatedDate   time.Time          `gorm:"column:created_date;autoCreateTime"`
	MatchedAt     *time.Time         `gorm:"column:matched_at"`
	BetAmount     int                `gorm:"column:bet_amount;not null"`
	OwnerID       int                `gorm:"column:owner_id;not null"`
	OpponentID    *int               `gorm:"column:opponent_id"`
	IsDraw        bool               `gorm:"column:is_draw;not null;default:false"`
	IsMatched     bool               `gorm:"column:is_matched;not null;default:false"`
	IsPrivate     bool               `gorm:"column:is_private;not null;default:false"`
	Metadata      json.RawMessage    `gorm:"column:metadata;type:jsonb"`
	OwnerPoint    int                `gorm:"column:owner_point;not null;default:0"`
	OpponentPoint int                `gorm:"column:opponent_point;not null;default:0"`
	WinnerID      *int               `gorm:"column:winner_id"`
	Gameweek      int                `gorm:"column:gameweek;not null"`
	TransferRule  enums.TransferRule `gorm:"column:transfer_rule;type:transfer_rule_enum;not null"`
	ChipRule      enums.ChipRule     `gorm:"column:chip_rule;type:chip_rule_enum;not null"`
	Status        enums.MatchStatus  `gorm:"column:status;type:match_status_enum;not null;default:next"`
}

func (Match) TableName() string { return "match" }
