package scoring

import (
	"sort"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

// Award is the points one prediction earned when its game was settled.
type Award struct {
	PredictionID string
	UserID       string
	Points       int
	Correct      bool
}

// UserDelta is the aggregated counter increment for one user.
type UserDelta struct {
	UserID string
	Delta  user.PointsDelta
}

// Settlement is everything written when a result is entered for a game.
// It is computed in full before any write happens.
type Settlement struct {
	GameID     string
	Result     game.Outcome
	FinishedAt time.Time
	Awards     []Award
	Deltas     []UserDelta
}

// BuildSettlement scores every prediction of g against result. Deltas are sorted by user id.
func BuildSettlement(g game.Game, result game.Outcome, predictions []prediction.Prediction, loc *time.Location, finishedAt time.Time) Settlement {
	if loc == nil {
		loc = time.UTC
	}
	gameDate := g.ScheduledAt.In(loc)

	awards := make([]Award, 0, len(predictions))
	byUser := make(map[string]user.PointsDelta)
	for _, item := range predictions {
		if item.GameID != g.ID {
			continue
		}
		points := Points(item.Value, result, gameDate)
		correct := item.Value == result
		awards = append(awards, Award{
			PredictionID: item.ID,
			UserID:       item.UserID,
			Points:       points,
			Correct:      correct,
		})

		delta := user.PointsDelta{Points: points, Total: 1}
		if correct {
			delta.Correct = 1
		}
		byUser[item.UserID] = byUser[item.UserID].Add(delta)
	}

	deltas := make([]UserDelta, 0, len(byUser))
	for userID, delta := range byUser {
		deltas = append(deltas, UserDelta{UserID: userID, Delta: delta})
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].UserID < deltas[j].UserID
	})

	return Settlement{
		GameID:     g.ID,
		Result:     result,
		FinishedAt: finishedAt,
		Awards:     awards,
		Deltas:     deltas,
	}
}
