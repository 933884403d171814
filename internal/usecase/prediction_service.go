package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	idgen "github.com/riskibarqy/weekly-pool/internal/platform/id"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type SubmitPredictionInput struct {
	UserID string
	GameID string
	Value  string
}

type PredictionService struct {
	gameRepo       game.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
	systemDayRepo  systemday.Repository
	idGen          idgen.Generator
	loc            *time.Location
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	gameRepo game.Repository,
	predictionRepo prediction.Repository,
	userRepo user.Repository,
	systemDayRepo systemday.Repository,
	idGen idgen.Generator,
	loc *time.Location,
	logger *logging.Logger,
) *PredictionService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		gameRepo:       gameRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		systemDayRepo:  systemDayRepo,
		idGen:          idGen,
		loc:            loc,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit stores the user's guess for a game while the game is OPEN. A second
// submission for the same (user, game) overwrites value and timestamp in place.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (_ prediction.Prediction, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit",
		attribute.String("pool.user_id", input.UserID),
		attribute.String("pool.game_id", input.GameID),
	)
	defer func() { endSpan(span, err) }()

	value, ok := game.ParseOutcome(input.Value)
	if !ok {
		return prediction.Prediction{}, fmt.Errorf("%w: value=%q", ErrInvalidPrediction, input.Value)
	}
	userID := strings.TrimSpace(input.UserID)
	gameID := strings.TrimSpace(input.GameID)
	if userID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrUnknownUser)
	}
	if gameID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: game id is required", ErrUnknownGame)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return prediction.Prediction{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: user=%s", ErrUnknownUser, userID)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: game=%s", ErrUnknownGame, gameID)
	}

	setting, err := loadSystemDay(ctx, s.systemDayRepo)
	if err != nil {
		return prediction.Prediction{}, err
	}

	now := s.now()
	state := game.Resolve(g, now, setting.EffectiveDay(now, s.loc))
	if !state.Open() {
		span.SetAttributes(attribute.String("pool.lock_reason", string(state.Reason)))
		return prediction.Prediction{}, fmt.Errorf("%w: game=%s reason=%s", ErrPredictionClosed, gameID, state.Reason)
	}

	item := prediction.Prediction{
		UserID:      userID,
		GameID:      gameID,
		Value:       value,
		SubmittedAt: now.UTC(),
	}
	stored, err := s.upsert(ctx, item)
	if err != nil {
		return prediction.Prediction{}, err
	}

	s.logger.InfoContext(ctx, "prediction accepted",
		"prediction_id", stored.ID,
		"user_id", userID,
		"game_id", gameID,
		"value", string(value),
	)
	return stored, nil
}

func (s *PredictionService) upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	existing, exists, err := s.predictionRepo.GetByUserAndGame(ctx, item.UserID, item.GameID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if exists {
		return s.overwrite(ctx, existing, item)
	}

	item.ID, err = s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}
	err = s.predictionRepo.Insert(ctx, item)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, prediction.ErrGameClosed) {
		return prediction.Prediction{}, settledMeanwhile(item.GameID, err)
	}
	if !errors.Is(err, prediction.ErrDuplicate) {
		return prediction.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}

	// A concurrent submission won the insert; fall back to updating its record once.
	existing, exists, err = s.predictionRepo.GetByUserAndGame(ctx, item.UserID, item.GameID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction after duplicate insert: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction for user=%s game=%s vanished after duplicate insert", ErrConflict, item.UserID, item.GameID)
	}
	return s.overwrite(ctx, existing, item)
}

func (s *PredictionService) overwrite(ctx context.Context, existing, incoming prediction.Prediction) (prediction.Prediction, error) {
	existing.Value = incoming.Value
	existing.SubmittedAt = incoming.SubmittedAt
	if err := s.predictionRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, prediction.ErrGameClosed) {
			return prediction.Prediction{}, settledMeanwhile(existing.GameID, err)
		}
		return prediction.Prediction{}, fmt.Errorf("update prediction: %w", err)
	}
	return existing, nil
}

// settledMeanwhile reports a write refused because the game got its result after availability was resolved.
func settledMeanwhile(gameID string, err error) error {
	return fmt.Errorf("%w: game=%s reason=%s: %w", ErrPredictionClosed, gameID, game.LockReasonFinished, err)
}

func (s *PredictionService) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, exists, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: user=%s", ErrUnknownUser, userID)
	}

	items, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}
	return items, nil
}
