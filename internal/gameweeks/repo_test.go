package gameweeks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fplduel/fplduel-backend/internal/feed"
	"github.com/fplduel/fplduel-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGameweeksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS gameweek_status (
  gameweek INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  average_entry_score INTEGER NOT NULL DEFAULT 0,
  data_checked INTEGER NOT NULL DEFAULT 0,
  deadline_time DATETIME NOT NULL,
  deadline_time_epoch INTEGER NOT NULL DEFAULT 0,
  finished INTEGER NOT NULL DEFAULT 0,
  is_current INTEGER NOT NULL DEFAULT 0,
  is_next INTEGER NOT NULL DEFAULT 0,
  is_previous INTEGER NOT NULL DEFAULT 0,
  highest_scoring_entry INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func gameweekRow(gameweek int, mutate func(*models.GameweekStatus)) models.GameweekStatus {
	row := models.GameweekStatus{
		Gameweek:     gameweek,
		Name:         fmt.Sprintf("Gameweek %d", gameweek),
		DeadlineTime: time.Date(2026, 9, 19, 10, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(&row)
	}
	return row
}

func TestUpsertAllInsertsAndOverwrites(t *testing.T) {
	db := setupGameweeksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := gameweekRow(5, func(r *models.GameweekStatus) {
		r.IsCurrent = true
		r.AverageEntryScore = 40
	})
	require.NoError(t, repo.UpsertAll(ctx, []models.GameweekStatus{first}))

	// re-ingesting the same gameweek overwrites mutable fields, never
	// duplicates the row
	updated := gameweekRow(5, func(r *models.GameweekStatus) {
		r.IsCurrent = false
		r.IsPrevious = true
		r.Finished = true
		r.AverageEntryScore = 55
	})
	require.NoError(t, repo.UpsertAll(ctx, []models.GameweekStatus{updated}))

	var count int64
	require.NoError(t, db.Model(&models.GameweekStatus{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var row models.GameweekStatus
	require.NoError(t, db.First(&row, "gameweek = ?", 5).Error)
	assert.False(t, row.IsCurrent)
	assert.True(t, row.IsPrevious)
	assert.True(t, row.Finished)
	assert.Equal(t, 55, row.AverageEntryScore)
}

func TestUpsertAllBatch(t *testing.T) {
	db := setupGameweeksTestDB(t)
	repo := NewRepository(db)

	rows := []models.GameweekStatus{
		gameweekRow(1, func(r *models.GameweekStatus) { r.Finished = true; r.IsPrevious = true }),
		gameweekRow(2, func(r *models.GameweekStatus) { r.IsCurrent = true }),
		gameweekRow(3, func(r *models.GameweekStatus) { r.IsNext = true }),
	}
	require.NoError(t, repo.UpsertAll(context.Background(), rows))

	var count int64
	require.NoError(t, db.Model(&models.GameweekStatus{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestUpsertAllEmptyIsNoOp(t *testing.T) {
	db := setupGameweeksTestDB(t)
	repo := NewRepository(db)
	require.NoError(t, repo.UpsertAll(context.Background(), nil))
}

func TestFindersReturnNilOnMiss(t *testing.T) {
	db := setupGameweeksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	current, err := repo.FindCurrent(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	next, err := repo.FindNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)

	previous, err := repo.FindFinishedPrevious(ctx)
	require.NoError(t, err)
	assert.Nil(t, previous)
}

func TestFindFinishedPreviousRequiresBothFlags(t *testing.T) {
	db := setupGameweeksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rows := []models.GameweekStatus{
		// previous but still being scored
		gameweekRow(4, func(r *models.GameweekStatus) { r.IsPrevious = true }),
		gameweekRow(5, func(r *models.GameweekStatus) { r.IsCurrent = true }),
	}
	require.NoError(t, repo.UpsertAll(ctx, rows))

	previous, err := repo.FindFinishedPrevious(ctx)
	require.NoError(t, err)
	assert.Nil(t, previous)

	finished := gameweekRow(4, func(r *models.GameweekStatus) {
		r.IsPrevious = true
		r.Finished = true
	})
	require.NoError(t, repo.UpsertAll(ctx, []models.GameweekStatus{finished}))

	previous, err = repo.FindFinishedPrevious(ctx)
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, 4, previous.Gameweek)

	current, err := repo.FindCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 5, current.Gameweek)
}

func TestServiceIngestEventsMapsFeedFields(t *testing.T) {
	db := setupGameweeksTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	entry := 123456
	events := []feed.Event{
		{
			ID:                  7,
			Name:                "Gameweek 7",
			AverageEntryScore:   61,
			DataChecked:         true,
			DeadlineTime:        "2026-10-03T10:30:00Z",
			DeadlineTimeEpoch:   1791023400,
			IsNext:              true,
			HighestScoringEntry: &entry,
		},
	}
	require.NoError(t, svc.IngestEvents(context.Background(), events))

	next, err := svc.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 7, next.Gameweek)
	assert.Equal(t, 61, next.AverageEntryScore)
	assert.Equal(t, 123456, next.HighestScoringEntry)
	assert.Equal(t, int64(1791023400), next.DeadlineTimeEpoch)
	assert.True(t, next.DataChecked)
}
