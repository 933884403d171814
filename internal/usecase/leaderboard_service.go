package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
)

type LeaderboardEntry struct {
	Rank int
	User user.User
}

type LeaderboardService struct {
	userRepo user.Repository
	logger   *logging.Logger
}

func NewLeaderboardService(userRepo user.Repository, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List ranks players by points, then correct predictions, then display name.
// Players level on points and correct count share a rank. limit <= 0 returns everyone.
func (s *LeaderboardService) List(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.List")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		if users[i].CorrectPredictions != users[j].CorrectPredictions {
			return users[i].CorrectPredictions > users[j].CorrectPredictions
		}
		return strings.ToLower(users[i].DisplayName) < strings.ToLower(users[j].DisplayName)
	})

	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}

	out := make([]LeaderboardEntry, 0, len(users))
	for i, item := range users {
		rank := i + 1
		if i > 0 {
			prev := out[i-1]
			if prev.User.Points == item.Points && prev.User.CorrectPredictions == item.CorrectPredictions {
				rank = prev.Rank
			}
		}
		out = append(out, LeaderboardEntry{Rank: rank, User: item})
	}
	return out, nil
}

// ResetPoints zeroes a player's counters. It is the only operation that lowers points.
func (s *LeaderboardService) ResetPoints(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ResetPoints")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrUnknownUser)
	}
	if _, exists, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrUnknownUser, userID)
	}

	if err := s.userRepo.ResetPoints(ctx, userID); err != nil {
		return user.User{}, fmt.Errorf("reset user points: %w", err)
	}
	updated, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user after reset: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrUnknownUser, userID)
	}

	s.logger.WarnContext(ctx, "user points reset", "user_id", userID)
	return updated, nil
}
