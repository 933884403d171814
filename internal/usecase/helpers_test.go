package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	"github.com/riskibarqy/weekly-pool/internal/infrastructure/repository/memory"
)

// Saturday 17 October 2026, 18:00 UTC.
var saturdayKickoff = time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1)), nil
}

type manualClock struct {
	at time.Time
}

func (c *manualClock) Now() time.Time {
	return c.at
}

func (c *manualClock) Set(at time.Time) {
	c.at = at
}

func dayPtr(day time.Weekday) *time.Weekday {
	return &day
}

func newPoolStore(games ...game.Game) *memory.Store {
	return memory.NewStore(memory.Seed{
		Games: games,
		Users: []user.User{
			{ID: "u1", DisplayName: "Dana", PlayerCode: "1001"},
			{ID: "u2", DisplayName: "Yossi", PlayerCode: "1002"},
		},
		SystemDay: &systemday.Setting{Week: 1},
	})
}

func saturdayGame(id string) game.Game {
	return game.Game{
		ID:          id,
		Week:        1,
		HomeTeam:    "Arsenal",
		AwayTeam:    "Liverpool",
		League:      "Premier League",
		ScheduledAt: saturdayKickoff,
		ClosesAt:    saturdayKickoff.Add(-15 * time.Minute),
	}
}

// gameReadHook runs afterGet once, right after the wrapped repository returned a game.
type gameReadHook struct {
	game.Repository
	afterGet func()
}

func (r *gameReadHook) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	g, exists, err := r.Repository.GetByID(ctx, gameID)
	if hook := r.afterGet; hook != nil {
		r.afterGet = nil
		hook()
	}
	return g, exists, err
}
