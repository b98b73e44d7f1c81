package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/pickup-football/internal/app"
	"github.com/riskibarqy/pickup-football/internal/config"
	"github.com/riskibarqy/pickup-football/internal/observability"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orchestrator, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		if err := orchestrator.Poller.Run(ctx); err != nil {
			logger.Error("poller failed", "error", err)
			stop()
		}
	})
	if orchestrator.Listener != nil {
		wg.Go(func() {
			if err := orchestrator.Listener.Run(ctx); err != nil {
				// polling still covers every game, only wake-ups are lost
				logger.Warn("pg listener stopped", "error", err)
			}
		})
	}

	logger.Info("orchestrator started", "tick_interval", cfg.TickInterval, "workers", cfg.Workers)
	<-ctx.Done()
	logger.Info("orchestrator stopping")
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := orchestrator.Close(); err != nil {
		logger.Error("close app", "error", err)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown telemetry", "error", err)
	}

	logger.Info("orchestrator stopped")
}
