package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/config"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
)

type stopFunc func(context.Context) error

type component struct {
	name string
	stop stopFunc
}

// Stack is the set of tracing and profiling hooks running for this process.
type Stack struct {
	logger     *logging.Logger
	components []component
}

// Start brings up tracing, continuous profiling and the pprof listener, each
// only when enabled in cfg. If one fails, those already started are stopped.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger.With("component", "observability")}

	starters := []struct {
		name  string
		start func(config.Config, *logging.Logger) (stopFunc, error)
	}{
		{name: "tracing", start: startTracing},
		{name: "profiling", start: startProfiling},
		{name: "pprof", start: startPprof},
	}
	for _, st := range starters {
		stop, err := st.start(cfg, s.logger)
		if err != nil {
			_ = s.Shutdown(ctx)
			return nil, fmt.Errorf("start %s: %w", st.name, err)
		}
		if stop != nil {
			s.components = append(s.components, component{name: st.name, stop: stop})
		}
	}
	return s, nil
}

// Running lists started components in start order.
func (s *Stack) Running() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c.name)
	}
	return out
}

// Shutdown stops components in reverse start order and joins their errors.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.components) - 1; i >= 0; i-- {
		c := s.components[i]
		if err := c.stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", c.name, err))
			continue
		}
		s.logger.Info("stopped", "name", c.name)
	}
	s.components = nil
	return errors.Join(errs...)
}

func poolTimezone(cfg config.Config) string {
	if cfg.PoolLocation == nil {
		return time.UTC.String()
	}
	return cfg.PoolLocation.String()
}
