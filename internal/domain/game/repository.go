package game

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("game not found")

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListByWeek(ctx context.Context, week int) ([]Game, error)
	// Update applies the patch and returns the stored game. It returns ErrNotFound
	// when the game does not exist.
	Update(ctx context.Context, gameID string, patch Patch) (Game, error)
}
