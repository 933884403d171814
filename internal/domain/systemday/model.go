package systemday

import (
	"fmt"
	"strings"
	"time"
)

// Setting is the process-wide selection of the current pool week and,
// optionally, the weekday the lock rules treat as today.
type Setting struct {
	Week        int
	DayOverride *time.Weekday
	UpdatedAt   time.Time
}

// EffectiveDay returns the override when set, else the real weekday of now in loc.
func (s Setting) EffectiveDay(now time.Time, loc *time.Location) time.Weekday {
	if s.DayOverride != nil {
		return *s.DayOverride
	}
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Weekday()
}

func (s Setting) Validate() error {
	if s.Week <= 0 {
		return fmt.Errorf("week must be greater than zero")
	}
	if s.DayOverride != nil && (*s.DayOverride < time.Sunday || *s.DayOverride > time.Saturday) {
		return fmt.Errorf("day override out of range: %d", *s.DayOverride)
	}
	return nil
}

// ParseWeekday accepts English weekday names (full or three-letter, any case).
func ParseWeekday(raw string) (time.Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := strings.ToLower(day.String())
		if value == name || value == name[:3] {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}
