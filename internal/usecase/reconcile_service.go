package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
)

const maxReconcileWorkers = 8

type ReconcileInput struct {
	MaxWorkers int
	// DryRun reports drift without writing.
	DryRun bool
}

type ReconcileUserResult struct {
	UserID   string
	Stored   user.Totals
	Computed user.Totals
	Updated  bool
	Error    string
}

type ReconcileResult struct {
	UserCount    int
	DriftCount   int
	UpdatedCount int
	FailedCount  int
	WorkerCount  int
	Users        []ReconcileUserResult
}

// ReconcileService rebuilds each player's cumulative counters from the points
// already stored on scored predictions. It never re-scores a game.
type ReconcileService struct {
	userRepo       user.Repository
	predictionRepo prediction.Repository
	defaultWorkers int
	logger         *logging.Logger
}

func NewReconcileService(userRepo user.Repository, predictionRepo prediction.Repository, defaultWorkers int, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}
}

func (s *ReconcileService) Reconcile(ctx context.Context, input ReconcileInput) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Reconcile")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list users: %w", err)
	}

	requested := input.MaxWorkers
	if requested <= 0 {
		requested = s.defaultWorkers
	}
	workerCount := normalizeReconcileWorkerCount(requested, len(users))
	result := ReconcileResult{
		UserCount:   len(users),
		WorkerCount: workerCount,
		Users:       make([]ReconcileUserResult, 0, len(users)),
	}
	if len(users) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	rows := make(chan ReconcileUserResult, len(users))
	var driftCount, updatedCount, failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range users {
		item := item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			row := s.reconcileUser(ctx, item, input.DryRun)
			if row.Error != "" {
				failedCount.Add(1)
			}
			if row.Stored != row.Computed {
				driftCount.Add(1)
			}
			if row.Updated {
				updatedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return ReconcileResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Users = append(result.Users, row)
	}
	sort.Slice(result.Users, func(i, j int) bool {
		return result.Users[i].UserID < result.Users[j].UserID
	})

	result.DriftCount = int(driftCount.Load())
	result.UpdatedCount = int(updatedCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "user totals reconciled",
		"users", result.UserCount,
		"drift", result.DriftCount,
		"updated", result.UpdatedCount,
		"failed", result.FailedCount,
		"dry_run", input.DryRun,
	)
	return result, nil
}

func (s *ReconcileService) reconcileUser(ctx context.Context, item user.User, dryRun bool) ReconcileUserResult {
	row := ReconcileUserResult{
		UserID: item.ID,
		Stored: user.Totals{
			Points:  item.Points,
			Correct: item.CorrectPredictions,
			Total:   item.TotalPredictions,
		},
	}

	predictions, err := s.predictionRepo.ListByUser(ctx, item.ID)
	if err != nil {
		row.Error = fmt.Sprintf("list predictions: %v", err)
		row.Computed = row.Stored
		return row
	}
	row.Computed = totalsFromPredictions(predictions)

	if dryRun || row.Computed == row.Stored {
		return row
	}
	if err := s.userRepo.SetTotals(ctx, item.ID, row.Computed); err != nil {
		row.Error = fmt.Sprintf("set totals: %v", err)
		return row
	}
	row.Updated = true
	return row
}

func totalsFromPredictions(items []prediction.Prediction) user.Totals {
	var out user.Totals
	for _, item := range items {
		if !item.Scored() {
			continue
		}
		out.Total++
		out.Points += *item.PointsAwarded
		if *item.PointsAwarded > 0 {
			out.Correct++
		}
	}
	return out
}

func normalizeReconcileWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > maxReconcileWorkers {
		value = maxReconcileWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
