package observability

import (
	"strings"

	"github.com/riskibarqy/weekly-pool/internal/config"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// startTracing installs the Uptrace OpenTelemetry providers. Without a DSN the
// global no-op providers stay in place and no component is registered.
func startTracing(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing disabled", "reason", "UPTRACE_ENABLED=false")
		return nil, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("tracing disabled", "reason", "UPTRACE_DSN empty")
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("pool.timezone", poolTimezone(cfg)),
			attribute.String("pool.storage", cfg.StorageDriver),
		),
	)
	logger.Info("tracing enabled", "service", cfg.ServiceName, "version", cfg.ServiceVersion)
	return uptrace.Shutdown, nil
}
