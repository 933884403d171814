package memory

import (
	"context"

	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
)

type SystemDayRepository struct {
	store *Store
}

func (r *SystemDayRepository) Get(_ context.Context) (systemday.Setting, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.systemDay == nil {
		return systemday.Setting{}, false, nil
	}
	return cloneSetting(*r.store.systemDay), true, nil
}

func (r *SystemDayRepository) Save(_ context.Context, setting systemday.Setting) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	setting = cloneSetting(setting)
	r.store.systemDay = &setting
	return nil
}
