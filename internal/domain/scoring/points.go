package scoring

import (
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
)

const (
	BasePoints         = 1
	SaturdayMultiplier = 2
)

// Points returns what a prediction earns against a final result. gameDate must
// already be expressed in the pool timezone so its weekday is the local one.
func Points(value, result game.Outcome, gameDate time.Time) int {
	if !value.Valid() || value != result {
		return 0
	}
	if gameDate.Weekday() == time.Saturday {
		return BasePoints * SaturdayMultiplier
	}
	return BasePoints
}
