package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/weekly-pool/internal/usecase"
)

func (h *Handler) ApplyGameResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ApplyGameResult")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req applyResultRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.resultService.ApplyResult(ctx, gameID, req.Result)
	if err != nil {
		h.logger.WarnContext(ctx, "apply game result failed", "game_id", gameID, "reason", usecase.RejectionReason(err), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultToDTO(outcome, h.loc))
}

func (h *Handler) LockGame(w http.ResponseWriter, r *http.Request) {
	h.setManualLock(w, r, true, "LockGame")
}

func (h *Handler) UnlockGame(w http.ResponseWriter, r *http.Request) {
	h.setManualLock(w, r, false, "UnlockGame")
}

func (h *Handler) setManualLock(w http.ResponseWriter, r *http.Request, locked bool, handlerName string) {
	ctx, span := startHandlerSpan(r, handlerName)
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.SetManualLock(ctx, gameID, locked)
	if err != nil {
		h.logger.WarnContext(ctx, "set manual lock failed", "game_id", gameID, "locked", locked, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameAvailabilityToDTO(item, h.loc))
}

func (h *Handler) GetSystemDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetSystemDay")
	defer span.End()

	view, err := h.systemDayService.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get system day failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, systemDayToDTO(view))
}

func (h *Handler) UpdateSystemDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "UpdateSystemDay")
	defer span.End()

	var req updateSystemDayRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpdateSystemDayInput{Week: req.Week}
	if req.Day != nil {
		input.Day = *req.Day
	}
	view, err := h.systemDayService.Update(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update system day failed", "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, systemDayToDTO(view))
}

func (h *Handler) ResetUserPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ResetUserPoints")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	item, err := h.leaderboardService.ResetPoints(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "reset user points failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(item))
}

func (h *Handler) ReconcileTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ReconcileTotals")
	defer span.End()

	var req reconcileRequest
	if err := h.decodeJSON(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.reconcileService.Reconcile(ctx, usecase.ReconcileInput{
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "reconcile totals failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reconcileToDTO(result))
}
