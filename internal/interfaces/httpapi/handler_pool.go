package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/weekly-pool/internal/usecase"
)

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetBoard")
	defer span.End()

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	board, err := h.gameService.Board(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get board failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(board, h.loc))
}

func (h *Handler) GetGameAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetGameAvailability")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.Availability(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game availability failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameAvailabilityToDTO(item, h.loc))
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SubmitPrediction")
	defer span.End()

	var req submitPredictionRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		UserID: req.UserID,
		GameID: req.GameID,
		Value:  req.Value,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction rejected",
			"user_id", req.UserID,
			"game_id", req.GameID,
			"reason", usecase.RejectionReason(err),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListUserPredictions")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	items, err := h.predictionService.ListByUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user predictions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetLeaderboard")
	defer span.End()

	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultLeaderboardLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryDTO{Rank: entry.Rank, userDTO: userToDTO(entry.User)})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
