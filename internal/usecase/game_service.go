package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type GameAvailability struct {
	Game         game.Game
	Availability game.Availability
	SystemDay    time.Weekday
	Now          time.Time
}

type BoardEntry struct {
	Game         game.Game
	Availability game.Availability
	// Prediction is the viewer's own guess, nil when none was submitted or no viewer was given.
	Prediction *prediction.Prediction
}

// Board is the list of games a player can see for the current week and system day.
type Board struct {
	Week      int
	SystemDay time.Weekday
	Now       time.Time
	Entries   []BoardEntry
}

type GameService struct {
	gameRepo       game.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
	systemDayRepo  systemday.Repository
	loc            *time.Location
	logger         *logging.Logger
	now            func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	predictionRepo prediction.Repository,
	userRepo user.Repository,
	systemDayRepo systemday.Repository,
	loc *time.Location,
	logger *logging.Logger,
) *GameService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GameService{
		gameRepo:       gameRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		systemDayRepo:  systemDayRepo,
		loc:            loc,
		logger:         logger,
		now:            time.Now,
	}
}

// Board lists the current week's games that are eligible on the effective
// system day. Every entry is resolved against the same instant.
func (s *GameService) Board(ctx context.Context, userID string) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Board")
	defer span.End()

	userID = strings.TrimSpace(userID)
	setting, err := loadSystemDay(ctx, s.systemDayRepo)
	if err != nil {
		return Board{}, err
	}

	var (
		games      []game.Game
		userKnown  = userID == ""
		ownByGame  = make(map[string]prediction.Prediction)
		ownEntries []prediction.Prediction
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.gameRepo.ListByWeek(ctx, setting.Week)
		if err != nil {
			return fmt.Errorf("list games by week: %w", err)
		}
		games = items
		return nil
	})
	if userID != "" {
		p.Go(func(ctx context.Context) error {
			_, exists, err := s.userRepo.GetByID(ctx, userID)
			if err != nil {
				return fmt.Errorf("get user: %w", err)
			}
			userKnown = exists
			return nil
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.predictionRepo.ListByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("list predictions by user: %w", err)
			}
			ownEntries = items
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Board{}, err
	}
	if !userKnown {
		return Board{}, fmt.Errorf("%w: user=%s", ErrUnknownUser, userID)
	}
	for _, item := range ownEntries {
		ownByGame[item.GameID] = item
	}

	now := s.now()
	day := setting.EffectiveDay(now, s.loc)
	board := Board{
		Week:      setting.Week,
		SystemDay: day,
		Now:       now,
		Entries:   make([]BoardEntry, 0, len(games)),
	}
	for _, g := range games {
		if !game.IsEligibleDay(g.DayIn(s.loc), day) {
			continue
		}
		entry := BoardEntry{
			Game:         g,
			Availability: game.Resolve(g, now, day),
		}
		if own, ok := ownByGame[g.ID]; ok {
			own := own
			entry.Prediction = &own
		}
		board.Entries = append(board.Entries, entry)
	}
	return board, nil
}

func (s *GameService) Availability(ctx context.Context, gameID string) (GameAvailability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Availability")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return GameAvailability{}, err
	}
	setting, err := loadSystemDay(ctx, s.systemDayRepo)
	if err != nil {
		return GameAvailability{}, err
	}

	now := s.now()
	day := setting.EffectiveDay(now, s.loc)
	return GameAvailability{
		Game:         g,
		Availability: game.Resolve(g, now, day),
		SystemDay:    day,
		Now:          now,
	}, nil
}

// SetManualLock sets or clears the sticky operator override and re-persists the
// display lock flag so it agrees with the resolver.
func (s *GameService) SetManualLock(ctx context.Context, gameID string, locked bool) (_ GameAvailability, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.SetManualLock",
		attribute.String("pool.game_id", gameID),
		attribute.Bool("pool.manual_lock", locked),
	)
	defer func() { endSpan(span, err) }()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return GameAvailability{}, err
	}
	setting, err := loadSystemDay(ctx, s.systemDayRepo)
	if err != nil {
		return GameAvailability{}, err
	}

	now := s.now()
	day := setting.EffectiveDay(now, s.loc)
	g.ManuallyLocked = locked
	state := game.Resolve(g, now, day)
	isLocked := !state.Open()

	updated, err := s.gameRepo.Update(ctx, g.ID, game.Patch{
		ManuallyLocked: &locked,
		IsLocked:       &isLocked,
	})
	if err != nil {
		return GameAvailability{}, fmt.Errorf("update game lock: %w", err)
	}

	s.logger.InfoContext(ctx, "game manual lock changed",
		"game_id", g.ID,
		"manually_locked", locked,
		"state", string(state.State),
	)
	return GameAvailability{
		Game:         updated,
		Availability: game.Resolve(updated, now, day),
		SystemDay:    day,
		Now:          now,
	}, nil
}

// SyncLockFlags persists IsLocked for current-week games whose resolved state
// drifted from the stored flag. It returns the number of games updated.
func (s *GameService) SyncLockFlags(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.SyncLockFlags")
	defer span.End()

	setting, err := loadSystemDay(ctx, s.systemDayRepo)
	if err != nil {
		return 0, err
	}
	games, err := s.gameRepo.ListByWeek(ctx, setting.Week)
	if err != nil {
		return 0, fmt.Errorf("list games by week: %w", err)
	}

	now := s.now()
	day := setting.EffectiveDay(now, s.loc)
	updated := 0
	for _, g := range games {
		isLocked := !game.Resolve(g, now, day).Open()
		if isLocked == g.IsLocked {
			continue
		}
		if _, err := s.gameRepo.Update(ctx, g.ID, game.Patch{IsLocked: &isLocked}); err != nil {
			return updated, fmt.Errorf("update lock flag game=%s: %w", g.ID, err)
		}
		updated++
	}

	if updated > 0 {
		s.logger.InfoContext(ctx, "game lock flags synced", "week", setting.Week, "updated", updated)
	}
	return updated, nil
}

func (s *GameService) getGame(ctx context.Context, gameID string) (game.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrUnknownGame)
	}
	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrUnknownGame, gameID)
	}
	return g, nil
}
