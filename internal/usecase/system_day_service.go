package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
)

const defaultPoolWeek = 1

// SystemDayView is the stored setting plus the weekday the lock rules resolve to right now.
type SystemDayView struct {
	Setting      systemday.Setting
	EffectiveDay time.Weekday
	Now          time.Time
}

type UpdateSystemDayInput struct {
	Week int
	// Day is an English weekday name. Empty clears the override.
	Day string
}

type SystemDayService struct {
	repo   systemday.Repository
	loc    *time.Location
	logger *logging.Logger
	now    func() time.Time
}

func NewSystemDayService(repo systemday.Repository, loc *time.Location, logger *logging.Logger) *SystemDayService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SystemDayService{
		repo:   repo,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the current setting. A pool that was never configured runs week 1 on the real clock.
func (s *SystemDayService) Get(ctx context.Context) (SystemDayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SystemDayService.Get")
	defer span.End()

	setting, err := loadSystemDay(ctx, s.repo)
	if err != nil {
		return SystemDayView{}, err
	}
	now := s.now()
	return SystemDayView{
		Setting:      setting,
		EffectiveDay: setting.EffectiveDay(now, s.loc),
		Now:          now,
	}, nil
}

func (s *SystemDayService) Update(ctx context.Context, input UpdateSystemDayInput) (SystemDayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SystemDayService.Update")
	defer span.End()

	setting := systemday.Setting{Week: input.Week}
	if input.Day != "" {
		day, err := systemday.ParseWeekday(input.Day)
		if err != nil {
			return SystemDayView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		setting.DayOverride = &day
	}
	if err := setting.Validate(); err != nil {
		return SystemDayView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	setting.UpdatedAt = now.UTC()
	if err := s.repo.Save(ctx, setting); err != nil {
		return SystemDayView{}, fmt.Errorf("save system day: %w", err)
	}

	s.logger.InfoContext(ctx, "system day updated",
		"week", setting.Week,
		"day_override", input.Day,
	)
	return SystemDayView{
		Setting:      setting,
		EffectiveDay: setting.EffectiveDay(now, s.loc),
		Now:          now,
	}, nil
}

func loadSystemDay(ctx context.Context, repo systemday.Repository) (systemday.Setting, error) {
	setting, exists, err := repo.Get(ctx)
	if err != nil {
		return systemday.Setting{}, fmt.Errorf("get system day: %w", err)
	}
	if !exists || setting.Week <= 0 {
		setting.Week = defaultPoolWeek
	}
	return setting, nil
}
