package memory

import (
	"context"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
)

type GameRepository struct {
	store *Store
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.games[gameID]
	return item, ok, nil
}

func (r *GameRepository) ListByWeek(_ context.Context, week int) ([]game.Game, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.store.games {
		if item.Week == week {
			out = append(out, item)
		}
	}
	sortGames(out)
	return out, nil
}

func (r *GameRepository) Update(_ context.Context, gameID string, patch game.Patch) (game.Game, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.games[gameID]
	if !ok {
		return game.Game{}, game.ErrNotFound
	}
	if patch.Empty() {
		return item, nil
	}
	item = patch.Apply(item)
	item.UpdatedAt = r.store.now().UTC()
	r.store.games[gameID] = item
	return item, nil
}
