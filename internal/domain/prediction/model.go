package prediction

import (
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
)

// Prediction is a user's 1/X/2 guess for one game. There is at most one per (user, game).
type Prediction struct {
	ID          string
	UserID      string
	GameID      string
	Value       game.Outcome
	SubmittedAt time.Time
	// PointsAwarded is nil until the game result has been applied.
	PointsAwarded *int
}

func (p Prediction) Scored() bool {
	return p.PointsAwarded != nil
}
