package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	basecache "github.com/riskibarqy/weekly-pool/internal/platform/cache"
)

const gameKeyPrefix = "game:"

// GameRepository caches game reads for the board and availability views.
// Every write through it, and every settlement through SettlementRepository,
// drops all cached games.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := gameKeyPrefix + "id:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, week int) ([]game.Game, error) {
	key := gameKeyPrefix + "week:" + strconv.Itoa(week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByWeek(ctx, week)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) Update(ctx context.Context, gameID string, patch game.Patch) (game.Game, error) {
	item, err := r.next.Update(ctx, gameID, patch)
	r.cache.DeletePrefix(ctx, gameKeyPrefix)
	if err != nil {
		return game.Game{}, err
	}
	return item, nil
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

type SettlementRepository struct {
	next  scoring.Repository
	cache *basecache.Store
}

func NewSettlementRepository(next scoring.Repository, cache *basecache.Store) *SettlementRepository {
	return &SettlementRepository{next: next, cache: cache}
}

func (r *SettlementRepository) Settle(ctx context.Context, claim scoring.Claim) (scoring.Settlement, error) {
	settlement, err := r.next.Settle(ctx, claim)
	r.cache.DeletePrefix(ctx, gameKeyPrefix)
	return settlement, err
}
