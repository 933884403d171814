package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	SystemDayStoreStorage = "storage"
	SystemDayStoreRedis   = "redis"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool

	SystemDayStore             string
	RedisURL                   string
	RedisCircuitEnabled        bool
	RedisCircuitFailureCount   int
	RedisCircuitOpenTimeout    time.Duration
	RedisCircuitHalfOpenMaxReq int

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	OperatorToken      string

	PoolLocation        *time.Location
	LockSweepInterval   time.Duration
	PredictionRateLimit float64
	PredictionRateBurst int
	ReconcileWorkers    int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch storageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	systemDayStore := strings.ToLower(strings.TrimSpace(getEnv("SYSTEM_DAY_STORE", SystemDayStoreStorage)))
	switch systemDayStore {
	case SystemDayStoreStorage, SystemDayStoreRedis:
	default:
		return Config{}, fmt.Errorf("invalid SYSTEM_DAY_STORE %q: valid values are %s, %s", systemDayStore, SystemDayStoreStorage, SystemDayStoreRedis)
	}
	redisURL := strings.TrimSpace(getEnv("REDIS_URL", ""))
	if systemDayStore == SystemDayStoreRedis && redisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when SYSTEM_DAY_STORE=%s", SystemDayStoreRedis)
	}
	redisCircuitEnabled, err := strconv.ParseBool(getEnv("REDIS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_ENABLED: %w", err)
	}
	redisCircuitFailureCount, err := getEnvAsInt("REDIS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if redisCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	redisCircuitOpenTimeout, err := time.ParseDuration(getEnv("REDIS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if redisCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	redisCircuitHalfOpenMaxReq, err := getEnvAsInt("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if redisCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	operatorToken := strings.TrimSpace(getEnv("OPERATOR_TOKEN", ""))
	if appEnv == EnvProd && operatorToken == "" {
		return Config{}, fmt.Errorf("OPERATOR_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	poolLocation, err := time.LoadLocation(strings.TrimSpace(getEnv("POOL_TIMEZONE", "UTC")))
	if err != nil {
		return Config{}, fmt.Errorf("parse POOL_TIMEZONE: %w", err)
	}

	lockSweepInterval, err := time.ParseDuration(getEnv("LOCK_SWEEP_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOCK_SWEEP_INTERVAL: %w", err)
	}
	if lockSweepInterval <= 0 {
		return Config{}, fmt.Errorf("LOCK_SWEEP_INTERVAL must be > 0")
	}

	predictionRateLimit, err := strconv.ParseFloat(getEnv("PREDICTION_RATE_LIMIT", "5"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTION_RATE_LIMIT: %w", err)
	}
	if predictionRateLimit < 0 {
		return Config{}, fmt.Errorf("PREDICTION_RATE_LIMIT must be >= 0")
	}
	predictionRateBurst, err := getEnvAsInt("PREDICTION_RATE_BURST", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTION_RATE_BURST: %w", err)
	}
	if predictionRateBurst < 1 {
		return Config{}, fmt.Errorf("PREDICTION_RATE_BURST must be >= 1")
	}

	reconcileWorkers, err := getEnvAsInt("RECONCILE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_WORKERS: %w", err)
	}
	if reconcileWorkers < 1 {
		return Config{}, fmt.Errorf("RECONCILE_WORKERS must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "weekly-pool-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   logLevel,
		StorageDriver:              storageDriver,
		DBURL:                      dbURL,
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		SystemDayStore:             systemDayStore,
		RedisURL:                   redisURL,
		RedisCircuitEnabled:        redisCircuitEnabled,
		RedisCircuitFailureCount:   redisCircuitFailureCount,
		RedisCircuitOpenTimeout:    redisCircuitOpenTimeout,
		RedisCircuitHalfOpenMaxReq: redisCircuitHalfOpenMaxReq,
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		CORSAllowedOrigins:         corsAllowedOrigins,
		OperatorToken:              operatorToken,
		PoolLocation:               poolLocation,
		LockSweepInterval:          lockSweepInterval,
		PredictionRateLimit:        predictionRateLimit,
		PredictionRateBurst:        predictionRateBurst,
		ReconcileWorkers:           reconcileWorkers,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

// LogFormat is console in dev and JSON elsewhere.
func (c Config) LogFormat() string {
	if c.AppEnv == EnvDev {
		return logging.FormatConsole
	}
	return logging.FormatJSON
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
