package httpapi

import (
	"net/http"

	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/riskibarqy/weekly-pool/internal/platform/ratelimit"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	operatorToken string,
	predictionLimiter *ratelimit.KeyedLimiter,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPoolRoutes(mux, handler, predictionLimiter)
	registerOperatorRoutes(mux, handler, operatorToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}
