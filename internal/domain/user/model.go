package user

import "time"

// User is a pool player with cumulative scoring counters.
type User struct {
	ID                 string
	DisplayName        string
	PlayerCode         string
	Points             int
	CorrectPredictions int
	TotalPredictions   int
	UpdatedAt          time.Time
}

// PointsDelta is the increment applied to a user's counters for one scored game.
type PointsDelta struct {
	Points  int
	Correct int
	Total   int
}

func (d PointsDelta) Add(other PointsDelta) PointsDelta {
	return PointsDelta{
		Points:  d.Points + other.Points,
		Correct: d.Correct + other.Correct,
		Total:   d.Total + other.Total,
	}
}

func (d PointsDelta) Zero() bool {
	return d.Points == 0 && d.Correct == 0 && d.Total == 0
}

// Apply returns u with the delta added to its counters.
func (u User) Apply(d PointsDelta) User {
	u.Points += d.Points
	u.CorrectPredictions += d.Correct
	u.TotalPredictions += d.Total
	return u
}

// Totals is an absolute value for the three counters, used by reconciliation.
type Totals = PointsDelta
