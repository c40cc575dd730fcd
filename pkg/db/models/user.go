package models

import "time"

// User owns the d_coin balance every wager draws from. The balance is mutated
// only through ledger-backed operations; the schema carries a d_coin >= 0
// check as the last line of defense.
type User struct {
	ID              int       `gorm:"column:id;primaryKey;autoIncrement"`
	Email           string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	FplID           *int      `gorm:"column:fpl_id"`
	GoogleID        *string   `gorm:"column:google_id"`
	FacebookID      *string   `gorm:"column:facebook_id"`
	Active          bool      `gorm:"column:active;not null;default:true"`
	DCoin           int       `gorm:"column:d_coin;not null;default:0"`
	Name            *string   `gorm:"column:name"`
	PlayerFirstName *string   `gorm:"column:player_first_name"`
	PlayerLastName  *string   `gorm:"column:player_last_name"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the singular table name the original schema uses.
func (User) TableName() string { return "user" }
