package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	"github.com/riskibarqy/weekly-pool/internal/infrastructure/repository/memory"
	gamemock "github.com/riskibarqy/weekly-pool/internal/mocks/domain/game"
	scoringmock "github.com/riskibarqy/weekly-pool/internal/mocks/domain/scoring"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestResultService(store *memory.Store) *ResultService {
	svc := NewResultService(store.Games(), store.Settlements(), time.UTC, nil)
	svc.now = func() time.Time { return saturdayKickoff.Add(2 * time.Hour) }
	return svc
}

func TestResultService_ApplyResult_ScoresEveryPrediction(t *testing.T) {
	ctx := context.Background()
	store := newPoolStore(saturdayGame("g1"))
	for _, item := range []prediction.Prediction{
		{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeDraw},
		{ID: "p2", UserID: "u2", GameID: "g1", Value: game.OutcomeHome},
	} {
		require.NoError(t, store.Predictions().Insert(ctx, item))
	}

	out, err := newTestResultService(store).ApplyResult(ctx, "g1", "X")
	require.NoError(t, err)
	require.True(t, out.Game.IsFinished)
	require.Equal(t, game.OutcomeDraw, out.Game.Result)
	require.Len(t, out.Settlement.Awards, 2)

	u1, _, _ := store.Users().GetByID(ctx, "u1")
	require.Equal(t, 2, u1.Points)
	require.Equal(t, 1, u1.CorrectPredictions)
	require.Equal(t, 1, u1.TotalPredictions)

	u2, _, _ := store.Users().GetByID(ctx, "u2")
	require.Equal(t, 0, u2.Points)
	require.Equal(t, 0, u2.CorrectPredictions)
	require.Equal(t, 1, u2.TotalPredictions)
}

func TestResultService_ApplyResult_SecondCallIsRejectedWithoutDoubleAward(t *testing.T) {
	ctx := context.Background()
	store := newPoolStore(saturdayGame("g1"))
	require.NoError(t, store.Predictions().Insert(ctx, prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeHome}))
	svc := newTestResultService(store)

	_, err := svc.ApplyResult(ctx, "g1", "1")
	require.NoError(t, err)

	_, err = svc.ApplyResult(ctx, "g1", "1")
	if !errors.Is(err, ErrGameAlreadyFinished) {
		t.Fatalf("expected ErrGameAlreadyFinished, got %v", err)
	}
	_, err = svc.ApplyResult(ctx, "g1", "2")
	if !errors.Is(err, ErrGameAlreadyFinished) {
		t.Fatalf("expected ErrGameAlreadyFinished for a different result, got %v", err)
	}

	u1, _, _ := store.Users().GetByID(ctx, "u1")
	if u1.Points != 2 || u1.TotalPredictions != 1 {
		t.Fatalf("points must be applied exactly once: %+v", u1)
	}
	g, _, _ := store.Games().GetByID(ctx, "g1")
	if g.Result != game.OutcomeHome {
		t.Fatalf("result must be immutable once set: %s", g.Result)
	}
}

func TestResultService_ApplyResult_ScoresSubmissionsRacingTheResult(t *testing.T) {
	ctx := context.Background()
	store := newPoolStore(saturdayGame("g1"))
	require.NoError(t, store.Predictions().Insert(ctx, prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeDraw}))

	predictions := NewPredictionService(store.Games(), store.Predictions(), store.Users(), store.SystemDay(),
		&sequenceIDGenerator{prefix: "prd"}, time.UTC, nil)
	predictions.now = func() time.Time { return saturdayKickoff.Add(-2 * time.Hour) }

	// Both submissions land after the result service has read the open game.
	games := &gameReadHook{Repository: store.Games(), afterGet: func() {
		_, err := predictions.Submit(ctx, SubmitPredictionInput{UserID: "u2", GameID: "g1", Value: "X"})
		require.NoError(t, err)
		_, err = predictions.Submit(ctx, SubmitPredictionInput{UserID: "u1", GameID: "g1", Value: "2"})
		require.NoError(t, err)
	}}
	svc := NewResultService(games, store.Settlements(), time.UTC, nil)
	svc.now = func() time.Time { return saturdayKickoff.Add(2 * time.Hour) }

	out, err := svc.ApplyResult(ctx, "g1", "X")
	require.NoError(t, err)
	require.Len(t, out.Settlement.Awards, 2)

	u2Prediction, _, _ := store.Predictions().GetByUserAndGame(ctx, "u2", "g1")
	require.True(t, u2Prediction.Scored())
	require.Equal(t, 2, *u2Prediction.PointsAwarded)
	u2, _, _ := store.Users().GetByID(ctx, "u2")
	require.Equal(t, 2, u2.Points)
	require.Equal(t, 1, u2.TotalPredictions)

	u1Prediction, _, _ := store.Predictions().GetByUserAndGame(ctx, "u1", "g1")
	require.Equal(t, game.OutcomeAway, u1Prediction.Value)
	require.True(t, u1Prediction.Scored())
	require.Equal(t, 0, *u1Prediction.PointsAwarded)
	u1, _, _ := store.Users().GetByID(ctx, "u1")
	require.Equal(t, 0, u1.Points)
	require.Equal(t, 1, u1.TotalPredictions)
}

func TestResultService_ApplyResult_WeekdayGameScoresSingle(t *testing.T) {
	ctx := context.Background()
	g := saturdayGame("g1")
	g.ScheduledAt = saturdayKickoff.Add(-72 * time.Hour)
	g.ClosesAt = g.ScheduledAt.Add(-15 * time.Minute)
	store := newPoolStore(g)
	require.NoError(t, store.Predictions().Insert(ctx, prediction.Prediction{ID: "p1", UserID: "u1", GameID: "g1", Value: game.OutcomeHome}))

	_, err := newTestResultService(store).ApplyResult(ctx, "g1", "1")
	require.NoError(t, err)

	u1, _, _ := store.Users().GetByID(ctx, "u1")
	require.Equal(t, 1, u1.Points)
}

func TestResultService_ApplyResult_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestResultService(newPoolStore(saturdayGame("g1")))

	_, err := svc.ApplyResult(ctx, "g1", "home")
	require.ErrorIs(t, err, ErrInvalidResult)

	for _, raw := range []string{"x", " 1 "} {
		_, err = svc.ApplyResult(ctx, "g1", raw)
		require.ErrorIs(t, err, ErrInvalidResult, "result %q", raw)
	}

	_, err = svc.ApplyResult(ctx, "missing", "1")
	require.ErrorIs(t, err, ErrUnknownGame)
}

func TestResultService_ApplyResult_LostRaceMapsToAlreadyFinishedUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)
	scoringRepo := scoringmock.NewRepository(t)

	svc := NewResultService(gameRepo, scoringRepo, time.UTC, nil)
	finishedAt := saturdayKickoff.Add(2 * time.Hour)
	svc.now = func() time.Time { return finishedAt }

	gameRepo.On("GetByID", ctx, "g1").Return(saturdayGame("g1"), true, nil).Once()
	scoringRepo.On("Settle", ctx, mock.MatchedBy(func(c scoring.Claim) bool {
		return c.GameID == "g1" && c.Result == game.OutcomeDraw && c.FinishedAt.Equal(finishedAt) && c.Location == time.UTC
	})).Return(scoring.Settlement{}, scoring.ErrAlreadySettled).Once()

	_, err := svc.ApplyResult(ctx, "g1", "X")
	if !errors.Is(err, ErrGameAlreadyFinished) {
		t.Fatalf("expected ErrGameAlreadyFinished, got %v", err)
	}
}

func TestResultService_ApplyResult_SettleFailureIsSurfacedUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)
	scoringRepo := scoringmock.NewRepository(t)

	svc := NewResultService(gameRepo, scoringRepo, time.UTC, nil)

	storageErr := errors.New("tx aborted")
	gameRepo.On("GetByID", ctx, "g1").Return(saturdayGame("g1"), true, nil).Once()
	scoringRepo.On("Settle", ctx, mock.Anything).Return(scoring.Settlement{}, storageErr).Once()

	_, err := svc.ApplyResult(ctx, "g1", "1")
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if errors.Is(err, ErrGameAlreadyFinished) {
		t.Fatalf("storage failure must not be reported as already finished")
	}
}
