package prediction

import (
	"context"
	"errors"
)

var (
	// ErrDuplicate signals that a prediction for the same (user, game) pair already exists.
	ErrDuplicate = errors.New("prediction already exists for user and game")
	ErrNotFound  = errors.New("prediction not found")

	// ErrGameClosed signals that the game was finished before the write could land.
	ErrGameClosed = errors.New("prediction game already finished")
)

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	GetByUserAndGame(ctx context.Context, userID, gameID string) (Prediction, bool, error)
	// Insert must return ErrDuplicate when (UserID, GameID) is already taken and
	// ErrGameClosed when the game is finished.
	Insert(ctx context.Context, item Prediction) error
	// Update overwrites value and submission time of the stored (UserID, GameID)
	// record. It returns ErrGameClosed when the game is finished.
	Update(ctx context.Context, item Prediction) error
	ListByUser(ctx context.Context, userID string) ([]Prediction, error)
}
