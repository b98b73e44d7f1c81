package observability

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/pickup-football/internal/config"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// mutexProfileRate samples one in n contention events on the per-game locks.
const mutexProfileRate = 5

// Telemetry is the span exporter and profiler of one orchestrator process.
// Either part may be off.
type Telemetry struct {
	tracing  bool
	profiler *pyroscope.Profiler
}

// Start configures Uptrace tracing and Pyroscope profiling from cfg.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}

	t := &Telemetry{tracing: startTracing(cfg, logger)}

	profiler, err := startProfiling(cfg, logger)
	if err != nil {
		return nil, err
	}
	t.profiler = profiler
	return t, nil
}

func startTracing(cfg config.Config, logger *logging.Logger) bool {
	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing off", "reason", "UPTRACE_ENABLED=false")
		return false
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("tracing off", "reason", "UPTRACE_DSN empty")
		return false
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("tracing on", "exporter", "uptrace", "service_version", cfg.ServiceVersion)
	return true
}

func startProfiling(cfg config.Config, logger *logging.Logger) (*pyroscope.Profiler, error) {
	if !cfg.PyroscopeEnabled {
		logger.Info("profiling off", "reason", "PYROSCOPE_ENABLED=false")
		return nil, nil
	}

	runtime.SetMutexProfileFraction(mutexProfileRate)
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              map[string]string{"env": cfg.AppEnv},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
		},
	})
	if err != nil {
		runtime.SetMutexProfileFraction(0)
		return nil, err
	}

	logger.Info("profiling on", "exporter", "pyroscope", "application", cfg.PyroscopeAppName)
	return profiler, nil
}

// Tracing reports whether spans are exported.
func (t *Telemetry) Tracing() bool { return t != nil && t.tracing }

// Profiling reports whether the profiler is running.
func (t *Telemetry) Profiling() bool { return t != nil && t.profiler != nil }

// Shutdown flushes pending spans and stops the profiler.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	if t.tracing {
		errs = append(errs, uptrace.Shutdown(ctx))
		t.tracing = false
	}
	if t.profiler != nil {
		errs = append(errs, t.profiler.Stop())
		runtime.SetMutexProfileFraction(0)
		t.profiler = nil
	}
	return errors.Join(errs...)
}
