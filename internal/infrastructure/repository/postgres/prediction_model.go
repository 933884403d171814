package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
)

const predictionColumns = "id, user_id, game_id, value, submitted_at, points_awarded"

type predictionTableModel struct {
	ID            string        `db:"id"`
	UserID        string        `db:"user_id"`
	GameID        string        `db:"game_id"`
	Value         string        `db:"value"`
	SubmittedAt   time.Time     `db:"submitted_at"`
	PointsAwarded sql.NullInt64 `db:"points_awarded"`
}

type predictionInsertModel struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	GameID      string    `db:"game_id"`
	Value       string    `db:"value"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	out := prediction.Prediction{
		ID:          m.ID,
		UserID:      m.UserID,
		GameID:      m.GameID,
		Value:       game.Outcome(m.Value),
		SubmittedAt: m.SubmittedAt.UTC(),
	}
	if m.PointsAwarded.Valid {
		points := int(m.PointsAwarded.Int64)
		out.PointsAwarded = &points
	}
	return out
}
