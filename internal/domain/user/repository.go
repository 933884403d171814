package user

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repository describes user persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	IncrementPoints(ctx context.Context, userID string, delta PointsDelta) error
	// ResetPoints zeroes all counters. It is the only path that lowers points.
	ResetPoints(ctx context.Context, userID string) error
	SetTotals(ctx context.Context, userID string, totals Totals) error
}
