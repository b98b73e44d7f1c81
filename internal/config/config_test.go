package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TickInterval != 5*time.Second {
		t.Fatalf("unexpected default tick interval: %s", cfg.TickInterval)
	}
	if cfg.AnnounceMaxAttempts != 3 {
		t.Fatalf("unexpected default announce attempts: %d", cfg.AnnounceMaxAttempts)
	}
	if cfg.LockTTL != 30*time.Second {
		t.Fatalf("unexpected default lock ttl: %s", cfg.LockTTL)
	}
	if cfg.Workers != 4 {
		t.Fatalf("unexpected default workers: %d", cfg.Workers)
	}
	if cfg.BalancerExhaustiveLimit != 18 {
		t.Fatalf("unexpected default exhaustive limit: %d", cfg.BalancerExhaustiveLimit)
	}
	if cfg.RedisEnabled || cfg.WebhookEnabled {
		t.Fatalf("expected redis and webhook disabled by default")
	}
	if cfg.SelectionSeed != 0 {
		t.Fatalf("expected unseeded selection by default, got %d", cfg.SelectionSeed)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "pickup-football-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "pickup-football-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_OrchestratorParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("ORCHESTRATOR_TICK_INTERVAL", "1s")
		t.Setenv("ORCHESTRATOR_WORKERS", "8")
		t.Setenv("ANNOUNCE_MAX_ATTEMPTS", "5")
		t.Setenv("SELECTION_SEED", "42")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.TickInterval != time.Second {
			t.Fatalf("unexpected tick interval: %s", cfg.TickInterval)
		}
		if cfg.Workers != 8 {
			t.Fatalf("unexpected workers: %d", cfg.Workers)
		}
		if cfg.AnnounceMaxAttempts != 5 {
			t.Fatalf("unexpected announce attempts: %d", cfg.AnnounceMaxAttempts)
		}
		if cfg.SelectionSeed != 42 {
			t.Fatalf("unexpected selection seed: %d", cfg.SelectionSeed)
		}
	})

	invalid := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero tick", key: "ORCHESTRATOR_TICK_INTERVAL", value: "0s"},
		{name: "bad tick", key: "ORCHESTRATOR_TICK_INTERVAL", value: "soon"},
		{name: "zero workers", key: "ORCHESTRATOR_WORKERS", value: "0"},
		{name: "zero attempts", key: "ANNOUNCE_MAX_ATTEMPTS", value: "0"},
		{name: "exhaustive limit too large", key: "BALANCER_EXHAUSTIVE_LIMIT", value: "40"},
		{name: "negative seed", key: "SELECTION_SEED", value: "-1"},
		{name: "negative bootstrap", key: "DB_BOOTSTRAP_SEED", value: "-3"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_DBBinaryParametersParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default false", func(t *testing.T) {
		t.Setenv("DB_BINARY_PARAMETERS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBBinaryParameters {
			t.Fatalf("expected DBBinaryParameters=false by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_BINARY_PARAMETERS", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_BINARY_PARAMETERS")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_RedisAddrFallback(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", " ")

	// blank falls back to the default address
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %q", cfg.RedisAddr)
	}
}

func TestLoad_WebhookConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("enabled requires url", func(t *testing.T) {
		t.Setenv("NOTIFY_WEBHOOK_ENABLED", "true")
		t.Setenv("NOTIFY_WEBHOOK_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when NOTIFY_WEBHOOK_ENABLED=true without NOTIFY_WEBHOOK_URL")
		}
	})

	t.Run("enabled with values", func(t *testing.T) {
		t.Setenv("NOTIFY_WEBHOOK_ENABLED", "true")
		t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/pickup")
		t.Setenv("NOTIFY_WEBHOOK_TOKEN", "secret")
		t.Setenv("NOTIFY_WEBHOOK_TIMEOUT", "2s")
		t.Setenv("NOTIFY_WEBHOOK_CIRCUIT_FAILURE_COUNT", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.WebhookURL != "https://hooks.example.com/pickup" {
			t.Fatalf("unexpected webhook url: %q", cfg.WebhookURL)
		}
		if cfg.WebhookTimeout != 2*time.Second {
			t.Fatalf("unexpected webhook timeout: %s", cfg.WebhookTimeout)
		}
		if cfg.WebhookCircuitFailureCount != 3 {
			t.Fatalf("unexpected circuit failure count: %d", cfg.WebhookCircuitFailureCount)
		}
	})

	t.Run("invalid half open", func(t *testing.T) {
		t.Setenv("NOTIFY_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for NOTIFY_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ=0")
		}
	})
}
