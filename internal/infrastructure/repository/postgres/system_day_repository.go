package postgres

import (
	"context"
	"database/sql"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	qb "github.com/riskibarqy/weekly-pool/internal/platform/querybuilder"
)

type systemDayTableModel struct {
	Week        int           `db:"week"`
	DayOverride sql.NullInt16 `db:"day_override"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

// SystemDayRepository keeps the setting as a single keyed row of system_settings.
type SystemDayRepository struct {
	db *sqlx.DB
}

func NewSystemDayRepository(db *sqlx.DB) *SystemDayRepository {
	return &SystemDayRepository{db: db}
}

func (r *SystemDayRepository) Get(ctx context.Context) (systemday.Setting, bool, error) {
	query, args, err := qb.Select("week", "day_override", "updated_at").From("system_settings").
		Where(qb.Eq("key", systemDaySettingKey)).
		ToSQL()
	if err != nil {
		return systemday.Setting{}, false, crerr.Wrap(err, "build select system day query")
	}

	var row systemDayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return systemday.Setting{}, false, nil
		}
		return systemday.Setting{}, false, crerr.Wrap(err, "select system day")
	}

	out := systemday.Setting{Week: row.Week, UpdatedAt: row.UpdatedAt.UTC()}
	if row.DayOverride.Valid {
		day := time.Weekday(row.DayOverride.Int16)
		out.DayOverride = &day
	}
	return out, true, nil
}

func (r *SystemDayRepository) Save(ctx context.Context, setting systemday.Setting) error {
	var override sql.NullInt16
	if setting.DayOverride != nil {
		override = sql.NullInt16{Int16: int16(*setting.DayOverride), Valid: true}
	}

	query, args, err := qb.InsertInto("system_settings").
		Columns("key", "week", "day_override", "updated_at").
		Values(systemDaySettingKey, setting.Week, override, setting.UpdatedAt.UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET week = EXCLUDED.week, day_override = EXCLUDED.day_override, updated_at = EXCLUDED.updated_at").
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build upsert system day query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "upsert system day")
	}
	return nil
}
