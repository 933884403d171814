package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	qb "github.com/riskibarqy/weekly-pool/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select(gameColumns).From("games").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, crerr.Wrap(err, "build select game by id query")
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, crerr.Wrapf(err, "select game by id=%s", gameID)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, week int) ([]game.Game, error) {
	query, args, err := qb.Select(gameColumns).From("games").
		Where(qb.Eq("week", week)).
		OrderBy("scheduled_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select games by week query")
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "select games by week=%d", week)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) Update(ctx context.Context, gameID string, patch game.Patch) (game.Game, error) {
	if patch.Empty() {
		item, exists, err := r.GetByID(ctx, gameID)
		if err != nil {
			return game.Game{}, err
		}
		if !exists {
			return game.Game{}, game.ErrNotFound
		}
		return item, nil
	}

	builder := qb.Update("games")
	if patch.IsLocked != nil {
		builder.SetExpr("is_locked", "? OR is_finished", *patch.IsLocked)
	}
	if patch.ManuallyLocked != nil {
		builder.Set("manually_locked", *patch.ManuallyLocked)
	}
	query, args, err := builder.
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", gameID)).
		Returning(gameColumns).
		ToSQL()
	if err != nil {
		return game.Game{}, crerr.Wrap(err, "build update game query")
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, game.ErrNotFound
		}
		return game.Game{}, crerr.Wrapf(err, "update game id=%s", gameID)
	}
	return row.toDomain(), nil
}
