package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/riskibarqy/weekly-pool/internal/usecase"
)

const (
	maxRequestBodyBytes     = 1 << 16
	defaultLeaderboardLimit = 100
)

type Handler struct {
	gameService        *usecase.GameService
	predictionService  *usecase.PredictionService
	resultService      *usecase.ResultService
	systemDayService   *usecase.SystemDayService
	leaderboardService *usecase.LeaderboardService
	reconcileService   *usecase.ReconcileService
	loc                *time.Location
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	gameService *usecase.GameService,
	predictionService *usecase.PredictionService,
	resultService *usecase.ResultService,
	systemDayService *usecase.SystemDayService,
	leaderboardService *usecase.LeaderboardService,
	reconcileService *usecase.ReconcileService,
	loc *time.Location,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{
		gameService:        gameService,
		predictionService:  predictionService,
		resultService:      resultService,
		systemDayService:   systemDayService,
		leaderboardService: leaderboardService,
		reconcileService:   reconcileService,
		loc:                loc,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// decodeJSON reads a strict JSON body. An empty body leaves payload untouched
// when allowEmpty is set.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, payload any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 && allowEmpty {
		return h.validateRequest(ctx, payload)
	}
	if err := strictJSON.Unmarshal(body, payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseLimit(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}
