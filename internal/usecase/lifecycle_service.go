package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/domain/window"
	idgen "github.com/riskibarqy/pickup-football/internal/platform/id"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

const DefaultAnnounceMaxAttempts = 3

type LifecycleConfig struct {
	// AnnounceMaxAttempts bounds automatic team announcement retries.
	AnnounceMaxAttempts int
	LockTTL             time.Duration
}

// TransitionResult describes what one transition call did.
type TransitionResult struct {
	GameID  string             `json:"game_id"`
	Kind    transition.Kind    `json:"kind"`
	Outcome transition.Outcome `json:"outcome"`
	From    game.Status        `json:"from,omitempty"`
	To      game.Status        `json:"to,omitempty"`
	Attempt int                `json:"attempt,omitempty"`
	Message string             `json:"message,omitempty"`
}

// LifecycleService owns Game.status. Every transition follows the same
// shape: claim the game, re-read it, check the guard, do the work, and
// write the status last.
type LifecycleService struct {
	gameRepo       game.Repository
	transitionRepo transition.Repository
	selectionSvc   *SelectionService
	teamSvc        *TeamBalanceService
	notifier       Notifier
	locker         Locker
	idGen          idgen.Generator
	inflight       *inflight
	attempts       *attemptLog
	cfg            LifecycleConfig
	logger         *logging.Logger
	now            func() time.Time
}

func NewLifecycleService(
	gameRepo game.Repository,
	transitionRepo transition.Repository,
	selectionSvc *SelectionService,
	teamSvc *TeamBalanceService,
	notifier Notifier,
	locker Locker,
	idGen idgen.Generator,
	cfg LifecycleConfig,
	logger *logging.Logger,
) *LifecycleService {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	if locker == nil {
		locker = NewNoopLocker()
	}
	if idGen == nil {
		idGen = idgen.NewPrefixedGenerator("evt")
	}
	if cfg.AnnounceMaxAttempts <= 0 {
		cfg.AnnounceMaxAttempts = DefaultAnnounceMaxAttempts
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}

	return &LifecycleService{
		gameRepo:       gameRepo,
		transitionRepo: transitionRepo,
		selectionSvc:   selectionSvc,
		teamSvc:        teamSvc,
		notifier:       notifier,
		locker:         locker,
		idGen:          idGen,
		inflight:       newInflight(),
		attempts:       newAttemptLog(),
		cfg:            cfg,
		logger:         logger.Named("lifecycle"),
		now:            time.Now,
	}
}

func (s *LifecycleService) OpenRegistration(ctx context.Context, gameID string) (TransitionResult, error) {
	return s.run(ctx, gameID, transition.KindOpen, false)
}

// CloseRegistration runs selection. force skips the clock guard for
// administrative closes; the status guard still applies.
func (s *LifecycleService) CloseRegistration(ctx context.Context, gameID string, force bool) (TransitionResult, error) {
	return s.run(ctx, gameID, transition.KindClose, force)
}

func (s *LifecycleService) AnnounceTeams(ctx context.Context, gameID string) (TransitionResult, error) {
	return s.run(ctx, gameID, transition.KindAnnounceTeams, false)
}

// Evaluate runs whichever transition the clock makes due for gameID.
func (s *LifecycleService) Evaluate(ctx context.Context, gameID string) (TransitionResult, error) {
	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return TransitionResult{}, classify(fmt.Errorf("get game=%s: %w", gameID, err))
	}
	if !exists {
		return TransitionResult{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return s.EvaluateGame(ctx, item)
}

// EvaluateGame is Evaluate for a game snapshot the caller already holds.
// The snapshot only decides which transition to try; the transition
// itself re-reads the game.
func (s *LifecycleService) EvaluateGame(ctx context.Context, item game.Game) (TransitionResult, error) {
	kind, due := window.Due(item, s.now())
	if !due {
		return TransitionResult{GameID: item.ID, Outcome: transition.OutcomeSkipped, From: item.Status, Message: "nothing due"}, nil
	}
	return s.run(ctx, item.ID, kind, false)
}

// ResetAnnounceRetries re-arms automatic team announcement after exhaustion.
func (s *LifecycleService) ResetAnnounceRetries(ctx context.Context, gameID string) error {
	return s.ResetRetries(ctx, gameID, transition.KindAnnounceTeams)
}

// ResetRetries clears an exhausted transition so the scheduler tries it again.
func (s *LifecycleService) ResetRetries(ctx context.Context, gameID string, kind transition.Kind) error {
	state, err := s.transitionRepo.GetState(ctx, gameID, kind)
	if err != nil {
		return fmt.Errorf("get transition state game=%s kind=%s: %w", gameID, kind, err)
	}
	previous := state.Attempts
	state.GameID = gameID
	state.Kind = kind
	state.Attempts = 0
	state.Exhausted = false
	state.LastError = ""
	state.UpdatedAt = s.now().UTC()
	if err := s.transitionRepo.SaveState(ctx, state); err != nil {
		return fmt.Errorf("reset transition state game=%s kind=%s: %w", gameID, kind, err)
	}
	s.attempts.set(attemptKey(gameID, kind), 0)
	s.recordEvent(ctx, transition.Event{
		GameID:  gameID,
		Kind:    kind,
		Outcome: transition.OutcomeSkipped,
		Message: "retries reset manually",
		Payload: map[string]any{"previous_attempts": previous},
	})
	s.logger.InfoContext(ctx, "transition retries reset", "game_id", gameID, "kind", kind, "previous_attempts", previous)
	return nil
}

func (s *LifecycleService) run(ctx context.Context, gameID string, kind transition.Kind, force bool) (result TransitionResult, err error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return TransitionResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	result = TransitionResult{GameID: gameID, Kind: kind, Outcome: transition.OutcomeSkipped}

	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService."+string(kind), gameID)
	defer func() { endSpan(span, err) }()

	if !s.inflight.tryStart(gameID) {
		result.Message = "transition already running in this process"
		return result, nil
	}
	defer s.inflight.done(gameID)

	release, err := s.locker.Acquire(ctx, lockKey(gameID), s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, ErrTransitionBusy) {
			result.Message = "transition locked by another worker"
			return result, nil
		}
		return result, classify(fmt.Errorf("acquire transition lock game=%s: %w", gameID, err))
	}
	defer func() {
		if releaseErr := release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.logger.WarnContext(ctx, "release transition lock failed", "game_id", gameID, "error", releaseErr)
		}
	}()

	current, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return result, classify(fmt.Errorf("reload game=%s: %w", gameID, err))
	}
	if !exists {
		return result, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	result.From = current.Status

	if !s.guard(kind, current, force) {
		result.Message = fmt.Sprintf("guard not met for status %s", current.Status)
		return result, nil
	}

	state := transition.State{GameID: gameID, Kind: kind}
	if kind == transition.KindAnnounceTeams {
		state, err = s.transitionRepo.GetState(ctx, gameID, kind)
		if err != nil {
			return result, classify(fmt.Errorf("get transition state game=%s: %w", gameID, err))
		}
		if local := s.attempts.get(attemptKey(gameID, kind)); local > state.Attempts {
			state.Attempts = local
		}
		if state.Attempts >= s.cfg.AnnounceMaxAttempts {
			state.Exhausted = true
		}
		if state.Exhausted {
			result.Outcome = transition.OutcomeExhausted
			result.Attempt = state.Attempts
			result.Message = "retries exhausted, manual intervention required"
			return result, fmt.Errorf("%w: game=%s kind=%s after %d attempts", ErrRetriesExhausted, gameID, kind, state.Attempts)
		}
	}
	attempt := state.Attempts + 1
	result.Attempt = attempt

	s.recordEvent(ctx, transition.Event{GameID: gameID, Kind: kind, Outcome: transition.OutcomeStarted, Attempt: attempt})

	to, payload, execErr := s.execute(ctx, kind, current)
	if execErr != nil {
		if errors.Is(execErr, game.ErrStatusConflict) {
			result.Message = "status changed concurrently"
			s.recordEvent(ctx, transition.Event{GameID: gameID, Kind: kind, Outcome: transition.OutcomeSkipped, Attempt: attempt, Message: execErr.Error()})
			return result, nil
		}
		return s.fail(ctx, result, state, classify(execErr))
	}

	if kind == transition.KindAnnounceTeams && state.Attempts > 0 {
		s.attempts.set(attemptKey(gameID, kind), 0)
		state.Attempts = 0
		state.Exhausted = false
		state.LastError = ""
		state.UpdatedAt = s.now().UTC()
		if saveErr := s.transitionRepo.SaveState(ctx, state); saveErr != nil {
			s.logger.WarnContext(ctx, "reset retry counter failed", "game_id", gameID, "error", saveErr)
		}
	}

	result.Outcome = transition.OutcomeCompleted
	result.To = to
	result.Message = successMessage(kind, payload)
	s.recordEvent(ctx, transition.Event{
		GameID:  gameID,
		Kind:    kind,
		Outcome: transition.OutcomeCompleted,
		Attempt: attempt,
		Message: result.Message,
		Payload: payload,
	})
	s.notify(ctx, Notification{GameID: gameID, Kind: kind, Level: NotificationInfo, Message: result.Message, Attempt: attempt})
	return result, nil
}

func (s *LifecycleService) guard(kind transition.Kind, current game.Game, force bool) bool {
	if kind == transition.KindClose && force {
		return current.Status == game.StatusOpen
	}
	return window.Allows(kind, current, s.now())
}

func (s *LifecycleService) execute(ctx context.Context, kind transition.Kind, current game.Game) (game.Status, map[string]any, error) {
	switch kind {
	case transition.KindOpen:
		if err := s.gameRepo.UpdateStatus(ctx, current.ID, game.StatusUpcoming, game.StatusOpen); err != nil {
			return "", nil, fmt.Errorf("open registration game=%s: %w", current.ID, err)
		}
		return game.StatusOpen, nil, nil
	case transition.KindClose:
		plan, err := s.selectionSvc.Close(ctx, current)
		if err != nil {
			return "", nil, err
		}
		return game.StatusPlayersAnnounced, map[string]any{
			"selected": plan.SelectedCount(),
			"token":    len(plan.Token),
			"merit":    len(plan.Merit),
			"random":   len(plan.Random),
			"reserve":  len(plan.Reserve),
		}, nil
	case transition.KindAnnounceTeams:
		assignment, err := s.teamSvc.Announce(ctx, current)
		if err != nil {
			return "", nil, err
		}
		return game.StatusTeamsAnnounced, map[string]any{
			"assignment_id": assignment.ID,
			"blue":          len(assignment.BlueTeam),
			"orange":        len(assignment.OrangeTeam),
			"total_diff":    assignment.Stats.TotalDiff,
			"method":        assignment.Method,
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: unknown transition %q", ErrInvalidInput, kind)
	}
}

func (s *LifecycleService) fail(ctx context.Context, result TransitionResult, state transition.State, err error) (TransitionResult, error) {
	result.Outcome = transition.OutcomeFailed
	level := NotificationWarning
	if IsInvariant(err) {
		level = NotificationError
	}

	if result.Kind != transition.KindAnnounceTeams {
		result.Message = fmt.Sprintf("%s failed, will retry on next tick: %v", result.Kind, err)
		s.recordEvent(ctx, transition.Event{GameID: result.GameID, Kind: result.Kind, Outcome: transition.OutcomeFailed, Attempt: result.Attempt, Message: err.Error()})
		s.notify(ctx, Notification{GameID: result.GameID, Kind: result.Kind, Level: level, Message: result.Message, Attempt: result.Attempt})
		return result, err
	}

	state.Attempts++
	state.LastError = err.Error()
	state.UpdatedAt = s.now().UTC()
	state.Exhausted = state.Attempts >= s.cfg.AnnounceMaxAttempts
	s.attempts.set(attemptKey(result.GameID, result.Kind), state.Attempts)
	if saveErr := s.transitionRepo.SaveState(ctx, state); saveErr != nil {
		s.logger.ErrorContext(ctx, "persist retry counter failed", "game_id", result.GameID, "error", saveErr)
	}

	if state.Exhausted {
		result.Outcome = transition.OutcomeExhausted
		result.Message = fmt.Sprintf("team announcement failed %d times, manual intervention required: %v", state.Attempts, err)
		s.recordEvent(ctx, transition.Event{GameID: result.GameID, Kind: result.Kind, Outcome: transition.OutcomeExhausted, Attempt: state.Attempts, Message: err.Error()})
		s.notify(ctx, Notification{GameID: result.GameID, Kind: result.Kind, Level: NotificationError, Message: result.Message, Attempt: state.Attempts, Terminal: true})
		return result, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, state.Attempts, err)
	}

	result.Message = fmt.Sprintf("team announcement attempt %d/%d failed: %v", state.Attempts, s.cfg.AnnounceMaxAttempts, err)
	s.recordEvent(ctx, transition.Event{GameID: result.GameID, Kind: result.Kind, Outcome: transition.OutcomeFailed, Attempt: state.Attempts, Message: err.Error()})
	s.notify(ctx, Notification{GameID: result.GameID, Kind: result.Kind, Level: level, Message: result.Message, Attempt: state.Attempts})
	return result, err
}

func (s *LifecycleService) notify(ctx context.Context, item Notification) {
	if item.OccurredAt.IsZero() {
		item.OccurredAt = s.now().UTC()
	}
	if err := s.notifier.Notify(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "deliver notification failed", "game_id", item.GameID, "kind", item.Kind, "error", err)
	}
}

func (s *LifecycleService) recordEvent(ctx context.Context, event transition.Event) {
	if s.transitionRepo == nil {
		return
	}
	if event.ID == "" {
		eventID, err := s.idGen.NewID()
		if err != nil {
			s.logger.WarnContext(ctx, "generate transition event id failed", "error", err)
			return
		}
		event.ID = eventID
	}
	event.TraceID, event.SpanID = traceMetaFromContext(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.transitionRepo.AppendEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record transition event failed",
			"game_id", event.GameID,
			"kind", event.Kind,
			"outcome", event.Outcome,
			"error", err,
		)
	}
}

func successMessage(kind transition.Kind, payload map[string]any) string {
	switch kind {
	case transition.KindOpen:
		return "registration is open"
	case transition.KindClose:
		return fmt.Sprintf("registration closed: %v players selected, %v on reserve", payload["selected"], payload["reserve"])
	case transition.KindAnnounceTeams:
		return fmt.Sprintf("teams announced: %v blue vs %v orange", payload["blue"], payload["orange"])
	default:
		return string(kind) + " completed"
	}
}

func lockKey(gameID string) string {
	return "pickup:transition:" + gameID
}

func attemptKey(gameID string, kind transition.Kind) string {
	return gameID + "/" + string(kind)
}
