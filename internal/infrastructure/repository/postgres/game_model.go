package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
)

const gameColumns = "id, week, home_team, away_team, league, scheduled_at, closes_at, is_locked, manually_locked, is_finished, result, updated_at"

type gameTableModel struct {
	ID             string         `db:"id"`
	Week           int            `db:"week"`
	HomeTeam       string         `db:"home_team"`
	AwayTeam       string         `db:"away_team"`
	League         string         `db:"league"`
	ScheduledAt    time.Time      `db:"scheduled_at"`
	ClosesAt       sql.NullTime   `db:"closes_at"`
	IsLocked       bool           `db:"is_locked"`
	ManuallyLocked bool           `db:"manually_locked"`
	IsFinished     bool           `db:"is_finished"`
	Result         sql.NullString `db:"result"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:             m.ID,
		Week:           m.Week,
		HomeTeam:       m.HomeTeam,
		AwayTeam:       m.AwayTeam,
		League:         m.League,
		ScheduledAt:    m.ScheduledAt.UTC(),
		ClosesAt:       nullTimeValue(m.ClosesAt),
		IsLocked:       m.IsLocked,
		ManuallyLocked: m.ManuallyLocked,
		IsFinished:     m.IsFinished,
		Result:         game.Outcome(m.Result.String),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}
