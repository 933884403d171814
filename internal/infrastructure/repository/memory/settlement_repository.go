package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

type SettlementRepository struct {
	store *Store
}

// Settle scores the predictions held under the store lock, so a prediction
// write either lands before the settlement or sees the finished game. The whole
// settlement is validated before anything is mutated.
func (r *SettlementRepository) Settle(_ context.Context, claim scoring.Claim) (scoring.Settlement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	g, ok := r.store.games[claim.GameID]
	if !ok {
		return scoring.Settlement{}, game.ErrNotFound
	}
	if g.IsFinished {
		return scoring.Settlement{}, scoring.ErrAlreadySettled
	}

	settlement := claim.Score(g, r.store.gamePredictionsLocked(g.ID))

	for _, delta := range settlement.Deltas {
		if _, ok := r.store.users[delta.UserID]; !ok {
			return scoring.Settlement{}, fmt.Errorf("%w: %s", user.ErrNotFound, delta.UserID)
		}
	}

	g.Result = settlement.Result
	g.IsFinished = true
	g.IsLocked = true
	g.UpdatedAt = settlement.FinishedAt
	r.store.games[g.ID] = g

	for _, award := range settlement.Awards {
		item := r.store.predictions[award.PredictionID]
		points := award.Points
		item.PointsAwarded = &points
		r.store.predictions[award.PredictionID] = item
	}
	for _, delta := range settlement.Deltas {
		if err := r.store.incrementLocked(delta.UserID, delta.Delta); err != nil {
			return scoring.Settlement{}, err
		}
	}
	return settlement, nil
}
