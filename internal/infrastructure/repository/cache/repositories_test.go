package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	gamemock "github.com/riskibarqy/weekly-pool/internal/mocks/domain/game"
	scoringmock "github.com/riskibarqy/weekly-pool/internal/mocks/domain/scoring"
	basecache "github.com/riskibarqy/weekly-pool/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestGameRepository_CachesReadsUntilUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := gamemock.NewRepository(t)
	repo := NewGameRepository(next, basecache.NewStore(time.Minute))

	open := game.Game{ID: "g1", Week: 1}
	locked := true
	lockedGame := open
	lockedGame.ManuallyLocked = true

	next.On("GetByID", mock.Anything, "g1").Return(open, true, nil).Once()
	next.On("Update", mock.Anything, "g1", game.Patch{ManuallyLocked: &locked}).Return(lockedGame, nil).Once()
	next.On("GetByID", mock.Anything, "g1").Return(lockedGame, true, nil).Once()

	for i := 0; i < 3; i++ {
		got, exists, err := repo.GetByID(ctx, "g1")
		if err != nil || !exists || got.ManuallyLocked {
			t.Fatalf("read %d: got=%+v exists=%v err=%v", i, got, exists, err)
		}
	}

	if _, err := repo.Update(ctx, "g1", game.Patch{ManuallyLocked: &locked}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _, err := repo.GetByID(ctx, "g1")
	if err != nil || !got.ManuallyLocked {
		t.Fatalf("expected fresh read after update: got=%+v err=%v", got, err)
	}
}

func TestGameRepository_ListByWeekReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := gamemock.NewRepository(t)
	repo := NewGameRepository(next, basecache.NewStore(time.Minute))

	next.On("ListByWeek", mock.Anything, 2).Return([]game.Game{{ID: "g1", Week: 2}}, nil).Once()

	first, err := repo.ListByWeek(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	first[0].ID = "mutated"

	second, err := repo.ListByWeek(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if second[0].ID != "g1" {
		t.Fatalf("cached slice must not be shared with callers: %+v", second)
	}
}

func TestSettlementRepository_InvalidatesGames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := basecache.NewStore(time.Minute)
	nextGames := gamemock.NewRepository(t)
	nextSettle := scoringmock.NewRepository(t)
	games := NewGameRepository(nextGames, store)
	settlements := NewSettlementRepository(nextSettle, store)

	nextGames.On("GetByID", mock.Anything, "g1").Return(game.Game{ID: "g1"}, true, nil).Once()
	nextSettle.On("Settle", mock.Anything, mock.Anything).Return(scoring.Settlement{GameID: "g1", Result: game.OutcomeDraw}, nil).Once()
	nextGames.On("GetByID", mock.Anything, "g1").Return(game.Game{ID: "g1", IsFinished: true, Result: game.OutcomeDraw}, true, nil).Once()

	if _, _, err := games.GetByID(ctx, "g1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := settlements.Settle(ctx, scoring.Claim{GameID: "g1", Result: game.OutcomeDraw}); err != nil {
		t.Fatalf("settle: %v", err)
	}
	got, _, err := games.GetByID(ctx, "g1")
	if err != nil || !got.IsFinished {
		t.Fatalf("expected finished game after settlement: got=%+v err=%v", got, err)
	}
}
