package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	qb "github.com/riskibarqy/weekly-pool/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByUserAndGame(ctx context.Context, userID, gameID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select(predictionColumns).From("predictions").
		Where(qb.Eq("user_id", userID), qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, crerr.Wrap(err, "build select prediction query")
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, crerr.Wrapf(err, "select prediction user=%s game=%s", userID, gameID)
	}
	return row.toDomain(), true, nil
}

// Insert relies on the (user_id, game_id) unique constraint; a violation is
// reported as prediction.ErrDuplicate.
func (r *PredictionRepository) Insert(ctx context.Context, item prediction.Prediction) error {
	query, args, err := qb.InsertModel("predictions", predictionInsertModel{
		ID:          item.ID,
		UserID:      item.UserID,
		GameID:      item.GameID,
		Value:       string(item.Value),
		SubmittedAt: item.SubmittedAt.UTC(),
	}, "")
	if err != nil {
		return crerr.Wrap(err, "build insert prediction query")
	}

	return r.writeOnOpenGame(ctx, item.GameID, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err, predictionsUserGameUnique) {
				return prediction.ErrDuplicate
			}
			return crerr.Wrapf(err, "insert prediction user=%s game=%s", item.UserID, item.GameID)
		}
		return nil
	})
}

func (r *PredictionRepository) Update(ctx context.Context, item prediction.Prediction) error {
	query, args, err := qb.Update("predictions").
		Set("value", string(item.Value)).
		Set("submitted_at", item.SubmittedAt.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("user_id", item.UserID), qb.Eq("game_id", item.GameID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update prediction query")
	}

	return r.writeOnOpenGame(ctx, item.GameID, func(tx *sqlx.Tx) error {
		return execExpectingRow(ctx, tx, query, args, prediction.ErrNotFound, "update prediction user="+item.UserID+" game="+item.GameID)
	})
}

// writeOnOpenGame runs write while holding a shared lock on the game row. The
// settlement claim updates that row, so the two serialize: a write queued
// behind a settlement sees is_finished and returns prediction.ErrGameClosed.
func (r *PredictionRepository) writeOnOpenGame(ctx context.Context, gameID string, write func(tx *sqlx.Tx) error) error {
	query, args, err := qb.Select("is_finished").From("games").
		Where(qb.Eq("id", gameID)).
		ForShare().
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build lock game query")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx prediction write")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var finished bool
	if err := tx.GetContext(ctx, &finished, query, args...); err != nil {
		if isNotFound(err) {
			return game.ErrNotFound
		}
		return crerr.Wrapf(err, "lock game id=%s", gameID)
	}
	if finished {
		return prediction.ErrGameClosed
	}

	if err := write(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit prediction write")
	}
	return nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *PredictionRepository) list(ctx context.Context, cond qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(predictionColumns).From("predictions").
		Where(cond).
		OrderBy("submitted_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list predictions query")
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select predictions")
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
