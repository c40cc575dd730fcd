package matches

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/fplduel/fplduel-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMatchesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS user (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  fpl_id INTEGER,
  google_id TEXT,
  facebook_id TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  d_coin INTEGER NOT NULL DEFAULT 0 CHECK (d_coin >= 0),
  name TEXT,
  player_first_name TEXT,
  player_last_name TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS "match" (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  season TEXT NOT NULL,
  created_date DATETIME,
  matched_at DATETIME,
  bet_amount INTEGER NOT NULL CHECK (bet_amount > 0),
  owner_id INTEGER NOT NULL,
  opponent_id INTEGER,
  is_draw INTEGER NOT NULL DEFAULT 0,
  is_matched INTEGER NOT NULL DEFAULT 0,
  is_private INTEGER NOT NULL DEFAULT 0,
  metadata TEXT NOT NULL DEFAULT '{}',
  owner_point INTEGER NOT NULL DEFAULT 0,
  opponent_point INTEGER NOT NULL DEFAULT 0,
  winner_id INTEGER,
  gameweek INTEGER NOT NULL,
  transfer_rule TEXT NOT NULL,
  chip_rule TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'next'
);`,
		`CREATE TABLE IF NOT EXISTS "transaction" (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  created_date DATETIME,
  owner_id INTEGER NOT NULL,
  type TEXT NOT NULL,
  flag TEXT NOT NULL,
  d_coin INTEGER NOT NULL CHECK (d_coin >= 0),
  message TEXT,
  metadata TEXT NOT NULL DEFAULT '{}'
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedMatch(t *testing.T, db *gorm.DB, gameweek int, status enums.MatchStatus) models.Match {
	t.Helper()
	row := models.Match{
		Season:       "23-24",
		BetAmount:    20,
		OwnerID:      1,
		Gameweek:     gameweek,
		TransferRule: enums.TransferRuleUnlimited,
		ChipRule:     enums.ChipRuleAllowed,
		Status:       status,
		Metadata:     json.RawMessage(`{}`),
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func TestPromoteNextToLiveScopedToGameweek(t *testing.T) {
	db := setupMatchesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		seedMatch(t, db, 5, enums.MatchStatusNext)
	}
	other := seedMatch(t, db, 6, enums.MatchStatusNext)

	affected, err := repo.PromoteNextToLive(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), affected)

	live, err := repo.CountByStatusAndGameweek(ctx, enums.MatchStatusLive, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), live)

	var untouched models.Match
	require.NoError(t, db.First(&untouched, "id = ?", other.ID).Error)
	assert.Equal(t, enums.MatchStatusNext, untouched.Status)
}

func TestPromoteNextToLiveIsIdempotent(t *testing.T) {
	db := setupMatchesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedMatch(t, db, 5, enums.MatchStatusNext)
	seedMatch(t, db, 5, enums.MatchStatusNext)

	first, err := repo.PromoteNextToLive(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first)

	second, err := repo.PromoteNextToLive(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second)
}

func TestPromoteLiveToFinishedDoesNotTouchNext(t *testing.T) {
	db := setupMatchesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedMatch(t, db, 4, enums.MatchStatusLive)
	next := seedMatch(t, db, 4, enums.MatchStatusNext)

	affected, err := repo.PromoteLiveToFinished(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var untouched models.Match
	require.NoError(t, db.First(&untouched, "id = ?", next.ID).Error)
	assert.Equal(t, enums.MatchStatusNext, untouched.Status)

	// finished never regresses
	back, err := repo.PromoteNextToLive(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), back) // only the row that was still next

	finished, err := repo.CountByStatusAndGameweek(ctx, enums.MatchStatusFinished, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), finished)
}

func TestCreateBatchInsertsAllRows(t *testing.T) {
	db := setupMatchesTestDB(t)
	repo := NewRepository(db)

	rows := []models.Match{}
	for i := 0; i < 3; i++ {
		rows = append(rows, models.Match{
			Season:       "23-24",
			BetAmount:    20,
			OwnerID:      1,
			Gameweek:     5,
			TransferRule: enums.TransferRuleUnlimited,
			ChipRule:     enums.ChipRuleAllowed,
			Status:       enums.MatchStatusNext,
			Metadata:     json.RawMessage(`{}`),
		})
	}
	require.NoError(t, repo.CreateBatch(context.Background(), rows))

	count, err := repo.CountByStatusAndGameweek(context.Background(), enums.MatchStatusNext, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
