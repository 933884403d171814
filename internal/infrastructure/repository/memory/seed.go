package memory

import (
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

const SeedWeek = 1

type seedFixture struct {
	id       string
	home     string
	away     string
	league   string
	dayShift int
	hour     int
}

var seedFixtures = []seedFixture{
	{id: "w1-ars-liv", home: "Arsenal", away: "Liverpool", league: "Premier League", dayShift: 0, hour: 19},
	{id: "w1-mci-che", home: "Manchester City", away: "Chelsea", league: "Premier League", dayShift: 1, hour: 17},
	{id: "w1-rma-bar", home: "Real Madrid", away: "Barcelona", league: "La Liga", dayShift: 1, hour: 21},
	{id: "w1-int-mil", home: "Inter", away: "Milan", league: "Serie A", dayShift: 2, hour: 20},
	{id: "w1-bay-bvb", home: "Bayern Munich", away: "Borussia Dortmund", league: "Bundesliga", dayShift: 3, hour: 18},
	{id: "w1-mta-hbs", home: "Maccabi Tel Aviv", away: "Hapoel Be'er Sheva", league: "Ligat ha'Al", dayShift: 4, hour: 20},
}

// SeedGames lays out the demo week starting on the day of now in loc. Each game
// closes fifteen minutes before kickoff.
func SeedGames(now time.Time, loc *time.Location) []game.Game {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	out := make([]game.Game, 0, len(seedFixtures))
	for _, item := range seedFixtures {
		kickoff := start.AddDate(0, 0, item.dayShift).Add(time.Duration(item.hour) * time.Hour)
		out = append(out, game.Game{
			ID:          item.id,
			Week:        SeedWeek,
			HomeTeam:    item.home,
			AwayTeam:    item.away,
			League:      item.league,
			ScheduledAt: kickoff.UTC(),
			ClosesAt:    kickoff.Add(-15 * time.Minute).UTC(),
			UpdatedAt:   now.UTC(),
		})
	}
	return out
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: "u-dana", DisplayName: "Dana", PlayerCode: "1001"},
		{ID: "u-yossi", DisplayName: "Yossi", PlayerCode: "1002"},
		{ID: "u-noa", DisplayName: "Noa", PlayerCode: "1003"},
		{ID: "u-avi", DisplayName: "Avi", PlayerCode: "1004"},
	}
}

// NewSeededStore builds the demo store used when no database is configured.
func NewSeededStore(now time.Time, loc *time.Location) *Store {
	return NewStore(Seed{
		Games:     SeedGames(now, loc),
		Users:     SeedUsers(),
		SystemDay: &systemday.Setting{Week: SeedWeek, UpdatedAt: now.UTC()},
	})
}
