package memory

import (
	"context"

	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

func (r *PredictionRepository) GetByUserAndGame(_ context.Context, userID, gameID string) (prediction.Prediction, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.predictionByPair[pairKey(userID, gameID)]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	return clonePrediction(r.store.predictions[id]), true, nil
}

func (r *PredictionRepository) Insert(_ context.Context, item prediction.Prediction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.games[item.GameID].IsFinished {
		return prediction.ErrGameClosed
	}
	key := pairKey(item.UserID, item.GameID)
	if _, exists := r.store.predictionByPair[key]; exists {
		return prediction.ErrDuplicate
	}
	if _, exists := r.store.predictions[item.ID]; exists {
		return prediction.ErrDuplicate
	}
	r.store.predictions[item.ID] = clonePrediction(item)
	r.store.predictionByPair[key] = item.ID
	return nil
}

func (r *PredictionRepository) Update(_ context.Context, item prediction.Prediction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.predictionByPair[pairKey(item.UserID, item.GameID)]
	if !ok {
		return prediction.ErrNotFound
	}
	if r.store.games[item.GameID].IsFinished {
		return prediction.ErrGameClosed
	}
	stored := r.store.predictions[id]
	stored.Value = item.Value
	stored.SubmittedAt = item.SubmittedAt
	r.store.predictions[id] = stored
	return nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	return r.list(func(item prediction.Prediction) bool { return item.UserID == userID }), nil
}

func (r *PredictionRepository) list(match func(prediction.Prediction) bool) []prediction.Prediction {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.store.predictions {
		if match(item) {
			out = append(out, clonePrediction(item))
		}
	}
	sortPredictions(out)
	return out
}
