package models

import "time"

// GameweekStatus mirrors one gameweek of the external season calendar.
// Rows are created and overwritten only by feed ingestion; the gameweek
// number is the immutable primary key.
type GameweekStatus struct {
	Gameweek            int       `gorm:"column:gameweek;primaryKey"`
	Name                string    `gorm:"column:name;not null"`
	AverageEntryScore   int       `gorm:"column:average_entry_score;not null;default:0"`
	DataChecked         bool      `gorm:"column:data_checked;not null;default:false"`
	DeadlineTime        time.Time `gorm:"column:deadline_time;not null"`
	DeadlineTimeEpoch   int64     `gorm:"column:deadline_time_epoch;not null;default:0"`
	Finished            bool      `gorm:"column:finished;not null;default:false"`
	IsCurrent           bool      `gorm:"column:is_current;not null;default:false"`
	IsNext              bool      `gorm:"column:is_next;not null;default:false"`
	IsPrevious          bool      `gorm:"column:is_previous;not null;default:false"`
	HighestScoringEntry int       `gorm:"column:highest_scoring_entry;not null;default:0"`
}

func (GameweekStatus) TableName() string { return "gameweek_status" }
