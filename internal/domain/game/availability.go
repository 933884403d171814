package game

import "time"

type State string

const (
	StateOpen   State = "OPEN"
	StateLocked State = "LOCKED"
)

type LockReason string

const (
	LockReasonNone           LockReason = ""
	LockReasonManual         LockReason = "manual"
	LockReasonFinished       LockReason = "finished"
	LockReasonDeadlinePassed LockReason = "deadline-passed"
)

// NearClosingThreshold marks the countdown as urgent. It has no effect on the lock state.
const NearClosingThreshold = time.Hour

// Availability is the resolved betting state of one game at one instant.
type Availability struct {
	State            State
	Reason           LockReason
	TimerVisible     bool
	SecondsRemaining int64
	NearClosing      bool
}

func (a Availability) Open() bool {
	return a.State == StateOpen
}

// Resolve decides whether predictions are accepted for g at now, given the
// effective system day. Rules are evaluated in priority order and the first
// match wins. A zero ClosesAt is treated as already passed.
func Resolve(g Game, now time.Time, systemDay time.Weekday) Availability {
	switch {
	case g.ManuallyLocked:
		return locked(LockReasonManual)
	case g.IsFinished:
		return locked(LockReasonFinished)
	case g.ClosesAt.IsZero() || !now.Before(g.ClosesAt):
		return locked(LockReasonDeadlinePassed)
	}

	out := Availability{State: StateOpen}
	if !TimerShownOn(systemDay) {
		return out
	}

	remaining := g.ClosesAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	out.TimerVisible = true
	out.SecondsRemaining = int64(remaining / time.Second)
	out.NearClosing = remaining < NearClosingThreshold
	return out
}

func locked(reason LockReason) Availability {
	return Availability{State: StateLocked, Reason: reason}
}

// TimerShownOn reports whether the countdown is displayed on the given system day.
// Only Thursday through Saturday show it.
func TimerShownOn(day time.Weekday) bool {
	switch day {
	case time.Thursday, time.Friday, time.Saturday:
		return true
	default:
		return false
	}
}

// IsEligibleDay reports whether a game played on gameDay is listed when the
// system day is systemDay. Friday also carries Saturday fixtures.
func IsEligibleDay(gameDay, systemDay time.Weekday) bool {
	if gameDay == systemDay {
		return true
	}
	return systemDay == time.Friday && gameDay == time.Saturday
}
