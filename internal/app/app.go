package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/pickup-football/external/notify"
	"github.com/riskibarqy/pickup-football/internal/config"
	"github.com/riskibarqy/pickup-football/internal/domain/balance"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/selection"
	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
	"github.com/riskibarqy/pickup-football/internal/domain/token"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/infrastructure/lock"
	cachedrepo "github.com/riskibarqy/pickup-football/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pickup-football/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickup-football/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pickup-football/internal/interfaces/worker"
	basecache "github.com/riskibarqy/pickup-football/internal/platform/cache"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/riskibarqy/pickup-football/internal/platform/resilience"
	"github.com/riskibarqy/pickup-football/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const memorySeedPlayers = 40

// App holds the wired services shared by the orchestrator and gamectl.
// Listener is nil unless the app runs on PostgreSQL.
type App struct {
	Games         *usecase.GameService
	Registrations *usecase.RegistrationService
	Lifecycle     *usecase.LifecycleService
	Poller        *worker.Poller
	Listener      *worker.PGListener

	logger  *logging.Logger
	closers []func() error
}

type stores struct {
	games         game.Repository
	registrations registration.Repository
	ratings       playerrating.Repository
	assignments   teamassignment.Repository
	transitions   transition.Repository
	tokens        token.Service
}

// New builds every collaborator from cfg. An empty DB_URL selects the
// in-memory store with a demo game, which is only allowed in dev.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	app := &App{logger: logger}

	var st stores
	if strings.TrimSpace(cfg.DBURL) == "" {
		if cfg.AppEnv != config.EnvDev {
			return nil, fmt.Errorf("DB_URL is required when APP_ENV=%s", cfg.AppEnv)
		}
		logger.Warn("DB_URL empty, using in-memory store with demo data")
		st = memoryStores(time.Now())
	} else {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
		if cfg.DBBootstrapSeed > 0 {
			if err := postgres.BootstrapSeed(ctx, db, cfg.DBBootstrapSeed); err != nil {
				_ = app.Close()
				return nil, err
			}
		}
		st = postgresStores(db)
	}

	if cfg.CacheEnabled {
		st.ratings = cachedrepo.NewRatingRepository(st.ratings, basecache.NewStore[playerrating.Snapshot](cfg.CacheTTL))
	}

	locker := usecase.NewNoopLocker()
	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		app.closers = append(app.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		locker = lock.NewRedisLocker(client)
	}

	notifier, err := buildNotifier(cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	drawer := selection.NewDrawer(nil)
	if cfg.SelectionSeed != 0 {
		drawer = selection.NewSeededDrawer(cfg.SelectionSeed)
	}
	balancer := balance.NewBalancer(balance.Config{ExhaustiveLimit: cfg.BalancerExhaustiveLimit})

	selectionSvc := usecase.NewSelectionService(st.games, st.registrations, st.ratings, selection.NewEngine(drawer), logger.Named("selection"))
	teamSvc := usecase.NewTeamBalanceService(st.games, st.registrations, st.ratings, st.assignments, balancer, nil, logger.Named("balance"))

	app.Lifecycle = usecase.NewLifecycleService(
		st.games,
		st.transitions,
		selectionSvc,
		teamSvc,
		notifier,
		locker,
		nil,
		usecase.LifecycleConfig{
			AnnounceMaxAttempts: cfg.AnnounceMaxAttempts,
			LockTTL:             cfg.LockTTL,
		},
		logger.Named("lifecycle"),
	)
	app.Games = usecase.NewGameService(st.games, st.registrations, st.assignments, st.transitions, nil, logger.Named("games"))
	app.Registrations = usecase.NewRegistrationService(st.games, st.registrations, st.tokens, logger.Named("registrations"))
	app.Poller = worker.NewPoller(st.games, app.Lifecycle, worker.PollerConfig{
		Interval: cfg.TickInterval,
		Workers:  cfg.Workers,
		Budget:   cfg.TickBudget,
	}, logger)
	if strings.TrimSpace(cfg.DBURL) != "" {
		app.Listener = worker.NewPGListener(cfg.DBURL, app.Poller, logger)
	}

	return app, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgresDSN(cfg.DBURL)
	if cfg.DBBinaryParameters {
		dsn = dsn.withBinaryParameters()
	}
	db, err := otelsqlx.Open("postgres", string(dsn),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dsn.database()),
		otelsql.WithQueryFormatter(traceQuery),
		otelsql.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 4)
	db.SetMaxIdleConns(cfg.Workers)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func postgresStores(db *sqlx.DB) stores {
	return stores{
		games:         postgres.NewGameRepository(db),
		registrations: postgres.NewRegistrationRepository(db),
		ratings:       postgres.NewRatingRepository(db),
		assignments:   postgres.NewTeamAssignmentRepository(db),
		transitions:   postgres.NewTransitionRepository(db),
		tokens:        postgres.NewTokenService(db),
	}
}

func memoryStores(now time.Time) stores {
	seeded := memory.SeedGame(now)
	ratings := memory.SeedRatings(memorySeedPlayers)
	tokenBalance := make(map[string]int, len(ratings))
	for _, snapshot := range ratings {
		tokenBalance[snapshot.PlayerID] = 1
	}
	return stores{
		games:         memory.NewGameRepository([]game.Game{seeded}),
		registrations: memory.NewRegistrationRepository(memory.SeedRegistrations(seeded.ID, seeded.RegistrationWindowStart, 24)),
		ratings:       memory.NewRatingRepository(ratings),
		assignments:   memory.NewAssignmentRepository(),
		transitions:   memory.NewTransitionRepository(),
		tokens:        memory.NewTokenService(tokenBalance),
	}
}

func buildNotifier(cfg config.Config, logger *logging.Logger) (usecase.Notifier, error) {
	logNotifier := usecase.NewLogNotifier(logger)
	if !cfg.WebhookEnabled {
		return logNotifier, nil
	}

	webhook, err := notify.NewWebhookNotifier(notify.WebhookConfig{
		URL:     cfg.WebhookURL,
		Token:   cfg.WebhookToken,
		Timeout: cfg.WebhookTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookCircuitEnabled,
			FailureThreshold: cfg.WebhookCircuitFailureCount,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build webhook notifier: %w", err)
	}
	return usecase.NewMultiNotifier(logNotifier, webhook), nil
}
