package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/riskibarqy/pickup-football/internal/usecase"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var workerTracer = otel.Tracer("pickup-football/internal/interfaces/worker")

// Evaluator runs whichever transition is due for a game.
type Evaluator interface {
	Evaluate(ctx context.Context, gameID string) (usecase.TransitionResult, error)
	EvaluateGame(ctx context.Context, item game.Game) (usecase.TransitionResult, error)
}

// PollerConfig tunes the tick loop. Budget bounds one tick, including
// every evaluation it dispatches.
type PollerConfig struct {
	Interval time.Duration
	Workers  int
	Budget   time.Duration
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval: 5 * time.Second,
		Workers:  4,
		Budget:   30 * time.Second,
	}
}

// TickReport counts evaluation outcomes of one pass.
type TickReport struct {
	Games     int `json:"games"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Exhausted int `json:"exhausted"`
}

// Poller drives the lifecycle clock: on every tick it evaluates each
// non-terminal game, and between ticks it reacts to Wake calls.
type Poller struct {
	games     game.Repository
	evaluator Evaluator
	cfg       PollerConfig
	wake      chan string
	logger    *logging.Logger
}

func NewPoller(games game.Repository, evaluator Evaluator, cfg PollerConfig, logger *logging.Logger) *Poller {
	defaults := DefaultPollerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaults.Workers
	}
	if cfg.Budget <= 0 {
		cfg.Budget = defaults.Budget
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Poller{
		games:     games,
		evaluator: evaluator,
		cfg:       cfg,
		wake:      make(chan string, 64),
		logger:    logger.Named("poller"),
	}
}

// Wake asks the poller to evaluate gameID before the next tick. It never
// blocks; when the queue is full the next tick picks the game up anyway.
func (p *Poller) Wake(gameID string) {
	select {
	case p.wake <- gameID:
	default:
		p.logger.Debug("wake queue full, deferring to next tick", "game_id", gameID)
	}
}

// Run ticks until ctx is cancelled. In-flight evaluations finish before
// Run returns.
func (p *Poller) Run(ctx context.Context) error {
	pool, err := ants.NewPool(p.cfg.Workers)
	if err != nil {
		return fmt.Errorf("create poller pool: %w", err)
	}
	defer pool.Release()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.Info("poller started", "interval", p.cfg.Interval, "workers", p.cfg.Workers)
	p.tick(ctx, pool)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			p.tick(ctx, pool)
		case gameID := <-p.wake:
			p.evaluateOne(ctx, gameID)
		}
	}
}

// RunOnce performs a single tick with its own pool.
func (p *Poller) RunOnce(ctx context.Context) (TickReport, error) {
	pool, err := ants.NewPool(p.cfg.Workers)
	if err != nil {
		return TickReport{}, fmt.Errorf("create poller pool: %w", err)
	}
	defer pool.Release()

	return p.dispatch(ctx, pool)
}

func (p *Poller) tick(ctx context.Context, pool *ants.Pool) {
	report, err := p.dispatch(ctx, pool)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.logger.WarnContext(ctx, "poller tick failed", "error", err)
		return
	}
	if report.Completed+report.Failed+report.Exhausted > 0 {
		p.logger.InfoContext(ctx, "poller tick finished",
			"games", report.Games,
			"completed", report.Completed,
			"skipped", report.Skipped,
			"failed", report.Failed,
			"exhausted", report.Exhausted,
		)
	}
}

func (p *Poller) dispatch(ctx context.Context, pool *ants.Pool) (report TickReport, err error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Budget)
	defer cancel()

	ctx, span := workerTracer.Start(ctx, "poller.tick")
	defer func() {
		span.SetAttributes(
			attribute.Int("poller.games", report.Games),
			attribute.Int("poller.completed", report.Completed),
			attribute.Int("poller.failed", report.Failed),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	games, err := p.games.ListActive(ctx)
	if err != nil {
		return TickReport{}, fmt.Errorf("list active games: %w", err)
	}
	report.Games = len(games)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(result usecase.TransitionResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case errors.Is(err, usecase.ErrRetriesExhausted):
			report.Exhausted++
		case err != nil:
			report.Failed++
		case result.Outcome == transition.OutcomeCompleted:
			report.Completed++
		default:
			report.Skipped++
		}
	}

	for _, item := range games {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			record(p.evaluate(ctx, item.ID, func(ctx context.Context) (usecase.TransitionResult, error) {
				return p.evaluator.EvaluateGame(ctx, item)
			}))
		}); err != nil {
			wg.Done()
			record(usecase.TransitionResult{GameID: item.ID}, fmt.Errorf("submit game=%s: %w", item.ID, err))
		}
	}
	wg.Wait()

	return report, nil
}

func (p *Poller) evaluateOne(ctx context.Context, gameID string) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Budget)
	defer cancel()

	ctx, span := workerTracer.Start(ctx, "poller.wake")
	defer span.End()
	span.SetAttributes(attribute.String("game.id", gameID))

	_, _ = p.evaluate(ctx, gameID, func(ctx context.Context) (usecase.TransitionResult, error) {
		return p.evaluator.Evaluate(ctx, gameID)
	})
}

// evaluate runs fn with panic recovery and logs the result at a level
// matching its error class.
func (p *Poller) evaluate(ctx context.Context, gameID string, fn func(context.Context) (usecase.TransitionResult, error)) (result usecase.TransitionResult, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		result, err = fn(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = fmt.Errorf("evaluate game=%s: %w", gameID, recovered.AsError())
	}

	switch {
	case err == nil:
		if result.Outcome == transition.OutcomeCompleted {
			p.logger.InfoContext(ctx, "transition completed",
				"game_id", gameID,
				"kind", result.Kind,
				"from", result.From,
				"to", result.To,
			)
		}
	case errors.Is(err, usecase.ErrRetriesExhausted):
		p.logger.DebugContext(ctx, "transition waiting for manual reset", "game_id", gameID, "kind", result.Kind)
	case usecase.IsTransient(err), errors.Is(err, context.DeadlineExceeded):
		p.logger.WarnContext(ctx, "transition failed, retrying next tick", "game_id", gameID, "kind", result.Kind, "error", err)
	default:
		p.logger.ErrorContext(ctx, "transition failed", "game_id", gameID, "kind", result.Kind, "error", err)
	}
	return result, err
}
