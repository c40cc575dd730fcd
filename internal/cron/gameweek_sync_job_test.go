package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/fplduel/fplduel-backend/internal/feed"
)

type fakeFeed struct {
	events []feed.Event
	err    error
}

func (f *fakeFeed) FetchEvents(ctx context.Context) ([]feed.Event, error) {
	return f.events, f.err
}

type fakeIngestor struct {
	ingested [][]feed.Event
	err      error
}

func (f *fakeIngestor) IngestEvents(ctx context.Context, events []feed.Event) error {
	if f.err != nil {
		return f.err
	}
	f.ingested = append(f.ingested, events)
	return nil
}

func TestGameweekSyncPassesEventsThrough(t *testing.T) {
	source := &fakeFeed{events: []feed.Event{{ID: 1, Name: "Gameweek 1"}, {ID: 2, Name: "Gameweek 2"}}}
	ingestor := &fakeIngestor{}
	job, err := NewGameweekSyncJob(GameweekSyncJobParams{
		Logger:    testLogger(),
		Feed:      source,
		Gameweeks: ingestor,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ingestor.ingested) != 1 || len(ingestor.ingested[0]) != 2 {
		t.Fatalf("expected one batch of 2 events, got %v", ingestor.ingested)
	}
}

func TestGameweekSyncSkipsIngestOnFetchFailure(t *testing.T) {
	ingestor := &fakeIngestor{}
	job, err := NewGameweekSyncJob(GameweekSyncJobParams{
		Logger:    testLogger(),
		Feed:      &fakeFeed{err: errors.New("feed down")},
		Gameweeks: ingestor,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if len(ingestor.ingested) != 0 {
		t.Fatal("nothing may be ingested when the fetch fails")
	}
}

func TestGameweekSyncPropagatesIngestFailure(t *testing.T) {
	job, err := NewGameweekSyncJob(GameweekSyncJobParams{
		Logger:    testLogger(),
		Feed:      &fakeFeed{events: []feed.Event{{ID: 1}}},
		Gameweeks: &fakeIngestor{err: errors.New("storage down")},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected ingest error to propagate")
	}
}
