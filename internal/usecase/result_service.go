package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ResultOutcome is what a successful result entry changed.
type ResultOutcome struct {
	Game       game.Game
	Settlement scoring.Settlement
}

type ResultService struct {
	gameRepo    game.Repository
	scoringRepo scoring.Repository
	loc         *time.Location
	logger      *logging.Logger
	now         func() time.Time
}

func NewResultService(
	gameRepo game.Repository,
	scoringRepo scoring.Repository,
	loc *time.Location,
	logger *logging.Logger,
) *ResultService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		gameRepo:    gameRepo,
		scoringRepo: scoringRepo,
		loc:         loc,
		logger:      logger,
		now:         time.Now,
	}
}

// ApplyResult finishes a game with its final outcome and awards points for every
// prediction on it. It is one-shot: a finished game is rejected with
// ErrGameAlreadyFinished and nothing is written.
func (s *ResultService) ApplyResult(ctx context.Context, gameID, rawResult string) (_ ResultOutcome, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.ApplyResult",
		attribute.String("pool.game_id", gameID),
		attribute.String("pool.result", rawResult),
	)
	defer func() { endSpan(span, err) }()

	result, ok := game.ParseOutcome(rawResult)
	if !ok {
		return ResultOutcome{}, fmt.Errorf("%w: result=%q", ErrInvalidResult, rawResult)
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return ResultOutcome{}, fmt.Errorf("%w: game id is required", ErrUnknownGame)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return ResultOutcome{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return ResultOutcome{}, fmt.Errorf("%w: game=%s", ErrUnknownGame, gameID)
	}
	if g.IsFinished {
		return ResultOutcome{}, fmt.Errorf("%w: game=%s", ErrGameAlreadyFinished, gameID)
	}

	now := s.now().UTC()
	settlement, err := s.scoringRepo.Settle(ctx, scoring.Claim{
		GameID:     gameID,
		Result:     result,
		FinishedAt: now,
		Location:   s.loc,
	})
	if err != nil {
		if errors.Is(err, scoring.ErrAlreadySettled) {
			return ResultOutcome{}, fmt.Errorf("%w: game=%s", ErrGameAlreadyFinished, gameID)
		}
		return ResultOutcome{}, fmt.Errorf("settle game: %w", err)
	}

	g.Result = result
	g.IsFinished = true
	g.IsLocked = true
	g.UpdatedAt = now

	s.logger.InfoContext(ctx, "game result applied",
		"game_id", gameID,
		"result", string(result),
		"predictions", len(settlement.Awards),
		"users", len(settlement.Deltas),
	)
	return ResultOutcome{Game: g, Settlement: settlement}, nil
}
