package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-pool/internal/config"
	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	cacherepo "github.com/riskibarqy/weekly-pool/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/weekly-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/weekly-pool/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/weekly-pool/internal/infrastructure/repository/redis"
	basecache "github.com/riskibarqy/weekly-pool/internal/platform/cache"
	"github.com/riskibarqy/weekly-pool/internal/platform/dburl"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/riskibarqy/weekly-pool/internal/platform/resilience"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second
)

// repositories is the storage wiring. games always reads the store directly;
// cachedGames is the read-through view used by the board and the lock sweep,
// and settlements invalidates it when the cache is enabled.
type repositories struct {
	games       game.Repository
	cachedGames game.Repository
	predictions prediction.Repository
	users       user.Repository
	systemDay   systemday.Repository
	settlements scoring.Repository
	closers     []func() error
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (*repositories, error) {
	repos := &repositories{}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repos.closers = append(repos.closers, db.Close)
		repos.games = postgres.NewGameRepository(db)
		repos.predictions = postgres.NewPredictionRepository(db)
		repos.users = postgres.NewUserRepository(db)
		repos.systemDay = postgres.NewSystemDayRepository(db)
		repos.settlements = postgres.NewSettlementRepository(db)
		logger.Info("storage ready", "driver", config.StoragePostgres, "dsn", dburl.Redact(cfg.DBURL))
	default:
		store := memory.NewSeededStore(time.Now(), cfg.PoolLocation)
		repos.games = store.Games()
		repos.predictions = store.Predictions()
		repos.users = store.Users()
		repos.systemDay = store.SystemDay()
		repos.settlements = store.Settlements()
		logger.Warn("storage ready", "driver", config.StorageMemory, "note", "state is lost on restart")
	}

	if cfg.SystemDayStore == config.SystemDayStoreRedis {
		client, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			_ = repos.close()
			return nil, err
		}
		repos.closers = append(repos.closers, client.Close)
		breaker := resilience.New(resilience.Config{
			Enabled:          cfg.RedisCircuitEnabled,
			FailureThreshold: cfg.RedisCircuitFailureCount,
			OpenTimeout:      cfg.RedisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RedisCircuitHalfOpenMaxReq,
		})
		breaker.OnStateChange(func(from, to resilience.State) {
			logger.Warn("redis circuit state changed", "from", string(from), "to", string(to))
		})
		repos.systemDay = redisrepo.NewSystemDayRepository(client, breaker)
		logger.Info("system day store ready", "store", config.SystemDayStoreRedis)
	}

	repos.cachedGames = repos.games
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.cachedGames = cacherepo.NewGameRepository(repos.games, store)
		repos.settlements = cacherepo.NewSettlementRepository(repos.settlements, store)
		logger.Info("game read cache enabled", "ttl", cfg.CacheTTL.String())
	}

	return repos, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := dburl.Normalize(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dburl.Name(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (r *repositories) close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
