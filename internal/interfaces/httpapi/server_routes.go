package httpapi

import (
	"net/http"

	"github.com/riskibarqy/weekly-pool/internal/platform/ratelimit"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPoolRoutes(mux *http.ServeMux, handler *Handler, predictionLimiter *ratelimit.KeyedLimiter) {
	mux.HandleFunc("GET /v1/games", handler.GetBoard)
	mux.HandleFunc("GET /v1/games/{gameID}/availability", handler.GetGameAvailability)
	mux.Handle("POST /v1/predictions", RateLimit(predictionLimiter, http.HandlerFunc(handler.SubmitPrediction)))
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListUserPredictions)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
}

func registerOperatorRoutes(mux *http.ServeMux, handler *Handler, operatorToken string) {
	operator := func(h http.HandlerFunc) http.Handler {
		return RequireOperatorToken(operatorToken, h)
	}

	mux.Handle("POST /v1/admin/games/{gameID}/result", operator(handler.ApplyGameResult))
	mux.Handle("POST /v1/admin/games/{gameID}/lock", operator(handler.LockGame))
	mux.Handle("DELETE /v1/admin/games/{gameID}/lock", operator(handler.UnlockGame))
	mux.Handle("GET /v1/admin/system-day", operator(handler.GetSystemDay))
	mux.Handle("PUT /v1/admin/system-day", operator(handler.UpdateSystemDay))
	mux.Handle("POST /v1/admin/users/{userID}/reset-points", operator(handler.ResetUserPoints))
	mux.Handle("POST /v1/admin/reconcile", operator(handler.ReconcileTotals))
}
