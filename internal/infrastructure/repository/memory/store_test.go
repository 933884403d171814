package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

var kickoff = time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(Seed{
		Games: []game.Game{
			{ID: "g1", Week: 1, ScheduledAt: kickoff, ClosesAt: kickoff.Add(-15 * time.Minute)},
			{ID: "g0", Week: 1, ScheduledAt: kickoff.Add(-24 * time.Hour), ClosesAt: kickoff.Add(-25 * time.Hour)},
			{ID: "g2", Week: 2, ScheduledAt: kickoff.Add(7 * 24 * time.Hour)},
		},
		Users: []user.User{
			{ID: "u1", DisplayName: "Dana"},
			{ID: "u2", DisplayName: "Yossi", Points: 5, CorrectPredictions: 3, TotalPredictions: 7},
		},
	})
}

func TestPredictionRepository_InsertRejectsDuplicatePair(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Predictions()

	first := prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeHome, SubmittedAt: kickoff}
	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	second := prediction.Prediction{ID: "p2", UserID: "u1", GameID: "g1", Value: game.OutcomeAway, SubmittedAt: kickoff}
	if err := repo.Insert(ctx, second); !errors.Is(err, prediction.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	items, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(items) != 1 || items[0].ID != "p1" {
		t.Fatalf("unexpected predictions: %+v", items)
	}
}

func TestPredictionRepository_ConcurrentInsertKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Predictions()

	var wg sync.WaitGroup
	var mu sync.Mutex
	duplicates := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Insert(ctx, prediction.Prediction{
				ID:     "p" + string(rune('a'+i)),
				UserID: "u1",
				GameID: "g1",
				Value:  game.OutcomeDraw,
			})
			if errors.Is(err, prediction.ErrDuplicate) {
				mu.Lock()
				duplicates++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if duplicates != 15 {
		t.Fatalf("expected 15 duplicate rejections, got %d", duplicates)
	}
	items, _ := repo.ListByUser(ctx, "u1")
	if len(items) != 1 {
		t.Fatalf("expected one stored prediction, got %d", len(items))
	}
}

func TestPredictionRepository_UpdateOverwritesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Predictions()

	if err := repo.Insert(ctx, prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeHome, SubmittedAt: kickoff}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	later := kickoff.Add(time.Minute)
	if err := repo.Update(ctx, prediction.Prediction{UserID: "u1", GameID: "g1", Value: game.OutcomeAway, SubmittedAt: later}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, exists, err := repo.GetByUserAndGame(ctx, "u1", "g1")
	if err != nil || !exists {
		t.Fatalf("get: exists=%v err=%v", exists, err)
	}
	if got.ID != "p1" || got.Value != game.OutcomeAway || !got.SubmittedAt.Equal(later) {
		t.Fatalf("unexpected prediction after update: %+v", got)
	}

	err = repo.Update(ctx, prediction.Prediction{UserID: "u2", GameID: "g1", Value: game.OutcomeAway})
	if !errors.Is(err, prediction.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGameRepository_ListByWeekSortedAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.now = func() time.Time { return kickoff }
	repo := store.Games()

	items, err := repo.ListByWeek(ctx, 1)
	if err != nil {
		t.Fatalf("list by week: %v", err)
	}
	if len(items) != 2 || items[0].ID != "g0" || items[1].ID != "g1" {
		t.Fatalf("unexpected week games: %+v", items)
	}

	locked := true
	updated, err := repo.Update(ctx, "g1", game.Patch{ManuallyLocked: &locked})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.ManuallyLocked || updated.IsLocked {
		t.Fatalf("unexpected patched game: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(kickoff) {
		t.Fatalf("unexpected updated at: %v", updated.UpdatedAt)
	}

	if _, err := repo.Update(ctx, "missing", game.Patch{ManuallyLocked: &locked}); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected game.ErrNotFound, got %v", err)
	}
}

func TestSettlementRepository_SettleAppliesOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	predictions := store.Predictions()
	for _, item := range []prediction.Prediction{
		{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeDraw},
		{ID: "p2", UserID: "u2", GameID: "g1", Value: game.OutcomeHome},
	} {
		if err := predictions.Insert(ctx, item); err != nil {
			t.Fatalf("insert %s: %v", item.ID, err)
		}
	}

	claim := scoring.Claim{GameID: "g1", Result: game.OutcomeDraw, FinishedAt: kickoff.Add(2 * time.Hour), Location: time.UTC}
	settlement, err := store.Settlements().Settle(ctx, claim)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(settlement.Awards) != 2 || len(settlement.Deltas) != 2 {
		t.Fatalf("unexpected settlement: %+v", settlement)
	}
	if _, err := store.Settlements().Settle(ctx, claim); !errors.Is(err, scoring.ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}

	settled, _, _ := store.Games().GetByID(ctx, "g1")
	if !settled.IsFinished || !settled.IsLocked || settled.Result != game.OutcomeDraw {
		t.Fatalf("unexpected settled game: %+v", settled)
	}

	u1, _, _ := store.Users().GetByID(ctx, "u1")
	if u1.Points != 2 || u1.CorrectPredictions != 1 || u1.TotalPredictions != 1 {
		t.Fatalf("unexpected u1 totals: %+v", u1)
	}
	u2, _, _ := store.Users().GetByID(ctx, "u2")
	if u2.Points != 5 || u2.CorrectPredictions != 3 || u2.TotalPredictions != 8 {
		t.Fatalf("unexpected u2 totals: %+v", u2)
	}

	p1, _, _ := predictions.GetByUserAndGame(ctx, "u1", "g1")
	if p1.PointsAwarded == nil || *p1.PointsAwarded != 2 {
		t.Fatalf("unexpected p1 award: %+v", p1.PointsAwarded)
	}
}

func TestSettlementRepository_SettleLeavesStoreUntouchedOnUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for _, item := range []prediction.Prediction{
		{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeHome},
		{ID: "p2", UserID: "ghost", GameID: "g1", Value: game.OutcomeAway},
	} {
		if err := store.Predictions().Insert(ctx, item); err != nil {
			t.Fatalf("insert %s: %v", item.ID, err)
		}
	}

	_, err := store.Settlements().Settle(ctx, scoring.Claim{GameID: "g1", Result: game.OutcomeHome, Location: time.UTC})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}

	g, _, _ := store.Games().GetByID(ctx, "g1")
	if g.IsFinished {
		t.Fatalf("game must stay unfinished after failed settlement")
	}
	u1, _, _ := store.Users().GetByID(ctx, "u1")
	if u1.Points != 0 || u1.TotalPredictions != 0 {
		t.Fatalf("u1 must be untouched: %+v", u1)
	}
	p1, _, _ := store.Predictions().GetByUserAndGame(ctx, "u1", "g1")
	if p1.Scored() {
		t.Fatalf("p1 must stay unscored: %+v", p1)
	}
}

func TestSettlementRepository_ScoresPredictionsStoredAtSettleTime(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	predictions := store.Predictions()

	if err := predictions.Insert(ctx, prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeDraw}); err != nil {
		t.Fatalf("insert p1: %v", err)
	}
	// Written after the caller last listed the game.
	if err := predictions.Insert(ctx, prediction.Prediction{ID: "p2", UserID: "u2", GameID: "g1", Value: game.OutcomeDraw}); err != nil {
		t.Fatalf("insert p2: %v", err)
	}
	if err := predictions.Update(ctx, prediction.Prediction{UserID: "u1", GameID: "g1", Value: game.OutcomeAway}); err != nil {
		t.Fatalf("update p1: %v", err)
	}

	settlement, err := store.Settlements().Settle(ctx, scoring.Claim{GameID: "g1", Result: game.OutcomeDraw, Location: time.UTC})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(settlement.Awards) != 2 {
		t.Fatalf("expected both predictions scored, got %+v", settlement.Awards)
	}

	p1, _, _ := predictions.GetByUserAndGame(ctx, "u1", "g1")
	if p1.Value != game.OutcomeAway || p1.PointsAwarded == nil || *p1.PointsAwarded != 0 {
		t.Fatalf("p1 award must match its stored value: %+v points=%v", p1, p1.PointsAwarded)
	}
	p2, _, _ := predictions.GetByUserAndGame(ctx, "u2", "g1")
	if p2.PointsAwarded == nil || *p2.PointsAwarded != 2 {
		t.Fatalf("unexpected p2 award: %v", p2.PointsAwarded)
	}
}

func TestPredictionRepository_WritesRejectedOnFinishedGame(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	predictions := store.Predictions()

	if err := predictions.Insert(ctx, prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeHome}); err != nil {
		t.Fatalf("insert p1: %v", err)
	}
	if _, err := store.Settlements().Settle(ctx, scoring.Claim{GameID: "g1", Result: game.OutcomeHome, Location: time.UTC}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	err := predictions.Insert(ctx, prediction.Prediction{ID: "p2", UserID: "u2", GameID: "g1", Value: game.OutcomeHome})
	if !errors.Is(err, prediction.ErrGameClosed) {
		t.Fatalf("insert: expected ErrGameClosed, got %v", err)
	}
	err = predictions.Update(ctx, prediction.Prediction{UserID: "u1", GameID: "g1", Value: game.OutcomeAway})
	if !errors.Is(err, prediction.ErrGameClosed) {
		t.Fatalf("update: expected ErrGameClosed, got %v", err)
	}

	p1, _, _ := predictions.GetByUserAndGame(ctx, "u1", "g1")
	if p1.Value != game.OutcomeHome {
		t.Fatalf("p1 value must be unchanged: %+v", p1)
	}
}

func TestUserRepository_ResetAndSetTotals(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()

	if err := repo.IncrementPoints(ctx, "u1", user.PointsDelta{Points: 2, Correct: 1, Total: 1}); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := repo.ResetPoints(ctx, "u2"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := repo.SetTotals(ctx, "ghost", user.Totals{}); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users[0].Points != 2 || users[1].Points != 0 || users[1].TotalPredictions != 0 {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestSeedGames_AllOpenAtSeedTime(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	for _, g := range SeedGames(now, time.UTC) {
		if !now.Before(g.ClosesAt) {
			t.Fatalf("seed game %s already closed at %v", g.ID, g.ClosesAt)
		}
		if g.Week != SeedWeek {
			t.Fatalf("seed game %s has week %d", g.ID, g.Week)
		}
	}
}
