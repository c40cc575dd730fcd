package cron

import (
	"context"
	"testing"

	"github.com/fplduel/fplduel-backend/pkg/db/models"
)

func TestMatchFinishPromotesFinishedPreviousGameweek(t *testing.T) {
	promoter := &fakePromoter{affected: 2}
	job, err := NewMatchFinishJob(MatchFinishJobParams{
		Logger:    testLogger(),
		Gameweeks: &fakeGameweekSource{previous: &models.GameweekStatus{Gameweek: 4, Finished: true}},
		Matches:   promoter,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(promoter.finishCalls) != 1 || promoter.finishCalls[0] != 4 {
		t.Fatalf("expected one promotion for gameweek 4, got %v", promoter.finishCalls)
	}
}

func TestMatchFinishNoopWhileScoresUnsettled(t *testing.T) {
	promoter := &fakePromoter{}
	job, err := NewMatchFinishJob(MatchFinishJobParams{
		Logger:    testLogger(),
		Gameweeks: &fakeGameweekSource{},
		Matches:   promoter,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(promoter.finishCalls) != 0 {
		t.Fatal("no promotion may happen before the previous gameweek settles")
	}
}
