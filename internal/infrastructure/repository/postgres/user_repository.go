package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	qb "github.com/riskibarqy/weekly-pool/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns).From("users").
		Where(qb.Eq("id", userID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return user.User{}, false, crerr.Wrap(err, "build select user by id query")
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, crerr.Wrapf(err, "select user by id=%s", userID)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select(userColumns).From("users").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list users query")
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select users")
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *UserRepository) IncrementPoints(ctx context.Context, userID string, delta user.PointsDelta) error {
	return incrementUserPoints(ctx, r.db, userID, delta)
}

func (r *UserRepository) ResetPoints(ctx context.Context, userID string) error {
	return r.SetTotals(ctx, userID, user.Totals{})
}

func (r *UserRepository) SetTotals(ctx context.Context, userID string, totals user.Totals) error {
	query, args, err := qb.Update("users").
		Set("points", totals.Points).
		Set("correct_predictions", totals.Correct).
		Set("total_predictions", totals.Total).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", userID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build set user totals query")
	}
	return execExpectingRow(ctx, r.db, query, args, user.ErrNotFound, "set totals user="+userID)
}

func incrementUserPoints(ctx context.Context, db sqlx.ExtContext, userID string, delta user.PointsDelta) error {
	query, args, err := qb.Update("users").
		Increment("points", delta.Points).
		Increment("correct_predictions", delta.Correct).
		Increment("total_predictions", delta.Total).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", userID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build increment user points query")
	}
	return execExpectingRow(ctx, db, query, args, user.ErrNotFound, "increment points user="+userID)
}

func execExpectingRow(ctx context.Context, db sqlx.ExtContext, query string, args []any, notFound error, op string) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrap(err, op)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, op+": rows affected")
	}
	if affected == 0 {
		return crerr.Wrap(notFound, op)
	}
	return nil
}
