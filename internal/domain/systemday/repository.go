package systemday

import "context"

// Repository stores the single system day setting.
type Repository interface {
	// Get returns the stored setting, or false when none has been saved yet.
	Get(ctx context.Context) (Setting, bool, error)
	Save(ctx context.Context, setting Setting) error
}
