package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/config"
	"github.com/riskibarqy/weekly-pool/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/weekly-pool/internal/platform/id"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/riskibarqy/weekly-pool/internal/platform/ratelimit"
	"github.com/riskibarqy/weekly-pool/internal/usecase"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App is the assembled API process: HTTP server, lock-flag sweeper and the
// storage handles they share.
type App struct {
	Server  *http.Server
	sweeper *lockSweeper
	repos   *repositories
	logger  *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if cfg.PoolLocation == nil {
		cfg.PoolLocation = time.UTC
	}
	loc := cfg.PoolLocation

	serverErrors, err := zap.NewStdLogAt(logger.With("component", "http_server").Zap(), zap.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("build http server error log: %w", err)
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	gameSvc := usecase.NewGameService(repos.cachedGames, repos.predictions, repos.users, repos.systemDay, loc, logger)
	predictionSvc := usecase.NewPredictionService(repos.games, repos.predictions, repos.users, repos.systemDay, idgen.NewUUIDGenerator("prd"), loc, logger)
	resultSvc := usecase.NewResultService(repos.games, repos.settlements, loc, logger)
	systemDaySvc := usecase.NewSystemDayService(repos.systemDay, loc, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.users, logger)
	reconcileSvc := usecase.NewReconcileService(repos.users, repos.predictions, cfg.ReconcileWorkers, logger)

	handler := httpapi.NewHandler(gameSvc, predictionSvc, resultSvc, systemDaySvc, leaderboardSvc, reconcileSvc, loc, logger)
	router := httpapi.NewRouter(
		handler,
		logger,
		cfg.CORSAllowedOrigins,
		cfg.OperatorToken,
		ratelimit.New(cfg.PredictionRateLimit, cfg.PredictionRateBurst),
	)

	return &App{
		Server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			ErrorLog:          serverErrors,
		},
		sweeper: newLockSweeper(gameSvc, cfg.LockSweepInterval, logger),
		repos:   repos,
		logger:  logger,
	}, nil
}

// Run serves HTTP and sweeps lock flags until ctx is cancelled or the server
// fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		a.sweeper.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.Server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}
	<-sweepDone
	a.logger.Info("http server stopped")

	return runErr
}

// Close releases database and redis handles.
func (a *App) Close() error {
	if a == nil || a.repos == nil {
		return nil
	}
	return a.repos.close()
}
