package game

import "time"

// Outcome is one of the three 1/X/2 tokens a prediction or a final result can carry.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// ParseOutcome accepts the exact tokens "1", "X" and "2". Case and surrounding
// whitespace are significant.
func ParseOutcome(raw string) (Outcome, bool) {
	switch raw {
	case string(OutcomeHome):
		return OutcomeHome, true
	case string(OutcomeDraw):
		return OutcomeDraw, true
	case string(OutcomeAway):
		return OutcomeAway, true
	default:
		return "", false
	}
}

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	default:
		return false
	}
}

// Game is one fixture that belongs to a pool week.
type Game struct {
	ID             string
	Week           int
	HomeTeam       string
	AwayTeam       string
	League         string
	ScheduledAt    time.Time
	ClosesAt       time.Time
	IsLocked       bool
	ManuallyLocked bool
	IsFinished     bool
	Result         Outcome
	UpdatedAt      time.Time
}

// DayIn returns the calendar weekday of the fixture in the pool timezone.
func (g Game) DayIn(loc *time.Location) time.Weekday {
	if loc == nil {
		loc = time.UTC
	}
	return g.ScheduledAt.In(loc).Weekday()
}

// Patch is a partial update to the operator-controlled and display flags of a game.
// Nil fields are left untouched. A finished game stays locked whatever IsLocked
// says; repositories apply that against the stored row.
type Patch struct {
	IsLocked       *bool
	ManuallyLocked *bool
}

func (p Patch) Empty() bool {
	return p.IsLocked == nil && p.ManuallyLocked == nil
}

func (p Patch) Apply(g Game) Game {
	if p.IsLocked != nil {
		g.IsLocked = *p.IsLocked
	}
	if p.ManuallyLocked != nil {
		g.ManuallyLocked = *p.ManuallyLocked
	}
	if g.IsFinished {
		g.IsLocked = true
	}
	return g
}
