package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Rejections surfaced to players and operators. Each wraps one of the generic
// sentinels above so transports can map them by family.
var (
	ErrInvalidPrediction   = fmt.Errorf("%w: %s", ErrInvalidInput, ReasonInvalidPrediction)
	ErrInvalidResult       = fmt.Errorf("%w: %s", ErrInvalidInput, ReasonInvalidResult)
	ErrUnknownUser         = fmt.Errorf("%w: %s", ErrNotFound, ReasonUnknownUser)
	ErrUnknownGame         = fmt.Errorf("%w: %s", ErrNotFound, ReasonUnknownGame)
	ErrPredictionClosed    = fmt.Errorf("%w: %s", ErrConflict, ReasonClosed)
	ErrGameAlreadyFinished = fmt.Errorf("%w: %s", ErrConflict, ReasonAlreadyFinished)
)

const (
	ReasonInvalidPrediction = "invalid-prediction"
	ReasonInvalidResult     = "invalid-result"
	ReasonUnknownUser       = "unknown-user"
	ReasonUnknownGame       = "unknown-game"
	ReasonClosed            = "closed"
	ReasonAlreadyFinished   = "already-finished"
)

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{ErrInvalidPrediction, ReasonInvalidPrediction},
	{ErrInvalidResult, ReasonInvalidResult},
	{ErrUnknownUser, ReasonUnknownUser},
	{ErrUnknownGame, ReasonUnknownGame},
	{ErrPredictionClosed, ReasonClosed},
	{ErrGameAlreadyFinished, ReasonAlreadyFinished},
}

// RejectionReason returns the stable rejection code carried by err, or "" when
// err is not a rejection.
func RejectionReason(err error) string {
	for _, item := range rejectionReasons {
		if errors.Is(err, item.err) {
			return item.reason
		}
	}
	return ""
}
