package postgres

import (
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

const userColumns = "id, display_name, player_code, points, correct_predictions, total_predictions, updated_at"

type userTableModel struct {
	ID                 string    `db:"id"`
	DisplayName        string    `db:"display_name"`
	PlayerCode         string    `db:"player_code"`
	Points             int       `db:"points"`
	CorrectPredictions int       `db:"correct_predictions"`
	TotalPredictions   int       `db:"total_predictions"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:                 m.ID,
		DisplayName:        m.DisplayName,
		PlayerCode:         m.PlayerCode,
		Points:             m.Points,
		CorrectPredictions: m.CorrectPredictions,
		TotalPredictions:   m.TotalPredictions,
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}
