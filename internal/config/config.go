package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

// Config stores runtime configuration for the orchestrator and gamectl.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	DBURL                        string
	DBBinaryParameters           bool
	DBBootstrapSeed              int
	RedisEnabled                 bool
	RedisAddr                    string
	RedisPassword                string
	RedisDB                      int
	LockTTL                      time.Duration
	TickInterval                 time.Duration
	TickBudget                   time.Duration
	Workers                      int
	AnnounceMaxAttempts          int
	BalancerExhaustiveLimit      int
	SelectionSeed                uint64
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	WebhookEnabled               bool
	WebhookURL                   string
	WebhookToken                 string
	WebhookTimeout               time.Duration
	WebhookCircuitEnabled        bool
	WebhookCircuitFailureCount   int
	WebhookCircuitOpenTimeout    time.Duration
	WebhookCircuitHalfOpenMaxReq int
	UptraceEnabled               bool
	UptraceDSN                   string
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	LogLevel                     logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "pickup-football-orchestrator"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		RedisAddr:                  strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379")),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		WebhookURL:                 strings.TrimSpace(getEnv("NOTIFY_WEBHOOK_URL", "")),
		WebhookToken:               strings.TrimSpace(getEnv("NOTIFY_WEBHOOK_TOKEN", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	cfg.DBBinaryParameters, err = strconv.ParseBool(getEnv("DB_BINARY_PARAMETERS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_BINARY_PARAMETERS: %w", err)
	}
	cfg.DBBootstrapSeed, err = getEnvAsInt("DB_BOOTSTRAP_SEED", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_BOOTSTRAP_SEED: %w", err)
	}
	if cfg.DBBootstrapSeed < 0 {
		return Config{}, fmt.Errorf("DB_BOOTSTRAP_SEED must be >= 0")
	}

	cfg.RedisEnabled, err = strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	if cfg.RedisEnabled && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	cfg.LockTTL, err = parsePositiveDuration("LOCK_TTL", "30s")
	if err != nil {
		return Config{}, err
	}

	cfg.TickInterval, err = parsePositiveDuration("ORCHESTRATOR_TICK_INTERVAL", "5s")
	if err != nil {
		return Config{}, err
	}
	cfg.TickBudget, err = parsePositiveDuration("ORCHESTRATOR_TICK_BUDGET", "30s")
	if err != nil {
		return Config{}, err
	}
	cfg.Workers, err = getEnvAsInt("ORCHESTRATOR_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ORCHESTRATOR_WORKERS: %w", err)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("ORCHESTRATOR_WORKERS must be >= 1")
	}
	cfg.AnnounceMaxAttempts, err = getEnvAsInt("ANNOUNCE_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANNOUNCE_MAX_ATTEMPTS: %w", err)
	}
	if cfg.AnnounceMaxAttempts < 1 {
		return Config{}, fmt.Errorf("ANNOUNCE_MAX_ATTEMPTS must be >= 1")
	}
	cfg.BalancerExhaustiveLimit, err = getEnvAsInt("BALANCER_EXHAUSTIVE_LIMIT", 18)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALANCER_EXHAUSTIVE_LIMIT: %w", err)
	}
	if cfg.BalancerExhaustiveLimit < 2 || cfg.BalancerExhaustiveLimit > 24 {
		return Config{}, fmt.Errorf("BALANCER_EXHAUSTIVE_LIMIT must be between 2 and 24")
	}
	if raw := strings.TrimSpace(os.Getenv("SELECTION_SEED")); raw != "" {
		cfg.SelectionSeed, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse SELECTION_SEED: %w", err)
		}
	}

	cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "1m")
	if err != nil {
		return Config{}, err
	}

	cfg.WebhookEnabled, err = strconv.ParseBool(getEnv("NOTIFY_WEBHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_WEBHOOK_ENABLED: %w", err)
	}
	if cfg.WebhookEnabled && cfg.WebhookURL == "" {
		return Config{}, fmt.Errorf("NOTIFY_WEBHOOK_URL is required when NOTIFY_WEBHOOK_ENABLED=true")
	}
	cfg.WebhookTimeout, err = parsePositiveDuration("NOTIFY_WEBHOOK_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	cfg.WebhookCircuitEnabled, err = strconv.ParseBool(getEnv("NOTIFY_WEBHOOK_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_WEBHOOK_CIRCUIT_ENABLED: %w", err)
	}
	cfg.WebhookCircuitFailureCount, err = getEnvAsInt("NOTIFY_WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_WEBHOOK_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.WebhookCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NOTIFY_WEBHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.WebhookCircuitOpenTimeout, err = parsePositiveDuration("NOTIFY_WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	cfg.WebhookCircuitHalfOpenMaxReq, err = getEnvAsInt("NOTIFY_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.WebhookCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NOTIFY_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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
