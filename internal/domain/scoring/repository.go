package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
)

// ErrAlreadySettled is returned when the game was finished before the settlement could claim it.
var ErrAlreadySettled = errors.New("game already settled")

// Claim is a request to finish one game with its result.
type Claim struct {
	GameID     string
	Result     game.Outcome
	FinishedAt time.Time
	// Location decides the calendar date used by the weekend rule.
	Location *time.Location
}

// Score builds the settlement of g from the predictions stored for it.
func (c Claim) Score(g game.Game, predictions []prediction.Prediction) Settlement {
	return BuildSettlement(g, c.Result, predictions, c.Location, c.FinishedAt)
}

// Repository applies a claim as one unit: the game is marked finished with its
// result, the predictions stored for it at that moment are scored, and every
// user delta is added. Nothing is written when the game is already finished.
// Prediction writes that race with Settle either land before it and are scored,
// or fail with prediction.ErrGameClosed.
type Repository interface {
	Settle(ctx context.Context, claim Claim) (Settlement, error)
}
