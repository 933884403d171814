package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/weekly-pool/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.users[userID]
	return item, ok, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]user.User, 0, len(r.store.users))
	for _, item := range r.store.users {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) IncrementPoints(_ context.Context, userID string, delta user.PointsDelta) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.incrementLocked(userID, delta)
}

func (r *UserRepository) ResetPoints(ctx context.Context, userID string) error {
	return r.SetTotals(ctx, userID, user.Totals{})
}

func (r *UserRepository) SetTotals(_ context.Context, userID string, totals user.Totals) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	item.Points = totals.Points
	item.CorrectPredictions = totals.Correct
	item.TotalPredictions = totals.Total
	item.UpdatedAt = r.store.now().UTC()
	r.store.users[userID] = item
	return nil
}

func (s *Store) incrementLocked(userID string, delta user.PointsDelta) error {
	item, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	item = item.Apply(delta)
	item.UpdatedAt = s.now().UTC()
	s.users[userID] = item
	return nil
}
