package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	qb "github.com/riskibarqy/weekly-pool/internal/platform/querybuilder"
)

type SettlementRepository struct {
	db *sqlx.DB
}

func NewSettlementRepository(db *sqlx.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// Settle writes the settlement in one transaction. The game row is claimed
// first with is_finished = FALSE as the guard, so a concurrent or repeated
// settlement of the same game commits nothing. The predictions are read after
// the claim: prediction writes hold a shared lock on the game row, so every
// write either committed before the claim or fails once it sees the result.
func (r *SettlementRepository) Settle(ctx context.Context, claim scoring.Claim) (scoring.Settlement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return scoring.Settlement{}, crerr.Wrap(err, "begin tx settle game")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	claimQuery, claimArgs, err := qb.Update("games").
		Set("result", string(claim.Result)).
		Set("is_finished", true).
		Set("is_locked", true).
		Set("updated_at", claim.FinishedAt.UTC()).
		Where(qb.Eq("id", claim.GameID), qb.Is("is_finished", false)).
		Returning(gameColumns).
		ToSQL()
	if err != nil {
		return scoring.Settlement{}, crerr.Wrap(err, "build claim game query")
	}

	var claimed gameTableModel
	if err := tx.GetContext(ctx, &claimed, claimQuery, claimArgs...); err != nil {
		if !isNotFound(err) {
			return scoring.Settlement{}, crerr.Wrapf(err, "claim game id=%s", claim.GameID)
		}
		return scoring.Settlement{}, r.unclaimedReason(ctx, tx, claim.GameID)
	}

	predictions, err := lockGamePredictions(ctx, tx, claim.GameID)
	if err != nil {
		return scoring.Settlement{}, err
	}
	settlement := claim.Score(claimed.toDomain(), predictions)

	for _, award := range settlement.Awards {
		query, args, err := qb.Update("predictions").
			Set("points_awarded", award.Points).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", award.PredictionID), qb.Eq("game_id", settlement.GameID)).
			ToSQL()
		if err != nil {
			return scoring.Settlement{}, crerr.Wrap(err, "build award prediction query")
		}
		if err := execExpectingRow(ctx, tx, query, args, prediction.ErrNotFound, "award prediction id="+award.PredictionID); err != nil {
			return scoring.Settlement{}, err
		}
	}

	for _, delta := range settlement.Deltas {
		if err := incrementUserPoints(ctx, tx, delta.UserID, delta.Delta); err != nil {
			return scoring.Settlement{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return scoring.Settlement{}, crerr.Wrap(err, "commit settle game")
	}
	return settlement, nil
}

func lockGamePredictions(ctx context.Context, tx *sqlx.Tx, gameID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(predictionColumns).From("predictions").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("submitted_at", "id").
		ForUpdate().
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build lock predictions query")
	}

	var rows []predictionTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "lock predictions game=%s", gameID)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SettlementRepository) unclaimedReason(ctx context.Context, tx *sqlx.Tx, gameID string) error {
	query, args, err := qb.Select("id").From("games").Where(qb.Eq("id", gameID)).ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build select game id query")
	}

	var id string
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return game.ErrNotFound
		}
		return crerr.Wrapf(err, "select game id=%s", gameID)
	}
	return scoring.ErrAlreadySettled
}
