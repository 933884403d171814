package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

// Store keeps every pool record behind one mutex so settlements and the
// (user, game) uniqueness check are atomic, like a single database would be.
type Store struct {
	mu sync.RWMutex

	games       map[string]game.Game
	predictions map[string]prediction.Prediction
	// predictionByPair indexes prediction ids by userID + "\x00" + gameID.
	predictionByPair map[string]string
	users            map[string]user.User
	systemDay        *systemday.Setting

	now func() time.Time
}

type Seed struct {
	Games       []game.Game
	Predictions []prediction.Prediction
	Users       []user.User
	SystemDay   *systemday.Setting
}

func NewStore(seed Seed) *Store {
	s := &Store{
		games:            make(map[string]game.Game, len(seed.Games)),
		predictions:      make(map[string]prediction.Prediction, len(seed.Predictions)),
		predictionByPair: make(map[string]string, len(seed.Predictions)),
		users:            make(map[string]user.User, len(seed.Users)),
		now:              time.Now,
	}
	for _, item := range seed.Games {
		s.games[item.ID] = item
	}
	for _, item := range seed.Predictions {
		s.predictions[item.ID] = clonePrediction(item)
		s.predictionByPair[pairKey(item.UserID, item.GameID)] = item.ID
	}
	for _, item := range seed.Users {
		s.users[item.ID] = item
	}
	if seed.SystemDay != nil {
		setting := cloneSetting(*seed.SystemDay)
		s.systemDay = &setting
	}
	return s
}

func (s *Store) Games() *GameRepository {
	return &GameRepository{store: s}
}

func (s *Store) Predictions() *PredictionRepository {
	return &PredictionRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) SystemDay() *SystemDayRepository {
	return &SystemDayRepository{store: s}
}

func (s *Store) Settlements() *SettlementRepository {
	return &SettlementRepository{store: s}
}

func pairKey(userID, gameID string) string {
	return userID + "\x00" + gameID
}

func clonePrediction(item prediction.Prediction) prediction.Prediction {
	if item.PointsAwarded != nil {
		points := *item.PointsAwarded
		item.PointsAwarded = &points
	}
	return item
}

func cloneSetting(item systemday.Setting) systemday.Setting {
	if item.DayOverride != nil {
		day := *item.DayOverride
		item.DayOverride = &day
	}
	return item
}

func sortGames(items []game.Game) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ScheduledAt.Equal(items[j].ScheduledAt) {
			return items[i].ScheduledAt.Before(items[j].ScheduledAt)
		}
		return items[i].ID < items[j].ID
	})
}

func (s *Store) gamePredictionsLocked(gameID string) []prediction.Prediction {
	out := make([]prediction.Prediction, 0)
	for _, item := range s.predictions {
		if item.GameID == gameID {
			out = append(out, clonePrediction(item))
		}
	}
	sortPredictions(out)
	return out
}

func sortPredictions(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].SubmittedAt.Before(items[j].SubmittedAt)
		}
		return items[i].ID < items[j].ID
	})
}
