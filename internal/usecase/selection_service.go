package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/selection"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

// SelectionService runs registration close: rank, select, persist, then
// advance the game status.
type SelectionService struct {
	gameRepo         game.Repository
	registrationRepo registration.Repository
	ratingRepo       playerrating.Repository
	engine           *selection.Engine
	logger           *logging.Logger
}

func NewSelectionService(
	gameRepo game.Repository,
	registrationRepo registration.Repository,
	ratingRepo playerrating.Repository,
	engine *selection.Engine,
	logger *logging.Logger,
) *SelectionService {
	if engine == nil {
		engine = selection.NewEngine(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SelectionService{
		gameRepo:         gameRepo,
		registrationRepo: registrationRepo,
		ratingRepo:       ratingRepo,
		engine:           engine,
		logger:           logger,
	}
}

// Close selects players for an open game. Status is written only after
// every registration outcome is stored.
func (s *SelectionService) Close(ctx context.Context, g game.Game) (selection.Plan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Close", g.ID)
	var err error
	defer func() { endSpan(span, err) }()

	if g.Status != game.StatusOpen {
		err = fmt.Errorf("%w: close requires status %s, got %s", ErrInvalidInput, game.StatusOpen, g.Status)
		return selection.Plan{}, err
	}

	plan, err := s.Preview(ctx, g)
	if err != nil {
		return selection.Plan{}, err
	}

	if err = s.registrationRepo.ApplySelection(ctx, g.ID, plan.Outcomes); err != nil {
		err = fmt.Errorf("apply selection game=%s: %w", g.ID, err)
		return selection.Plan{}, err
	}
	if err = s.gameRepo.UpdateStatus(ctx, g.ID, game.StatusOpen, game.StatusPlayersAnnounced); err != nil {
		err = fmt.Errorf("advance game=%s to %s: %w", g.ID, game.StatusPlayersAnnounced, err)
		return selection.Plan{}, err
	}

	s.logger.InfoContext(ctx, "players selected",
		"game_id", g.ID,
		"token", len(plan.Token),
		"merit", len(plan.Merit),
		"random", len(plan.Random),
		"reserve", len(plan.Reserve),
	)
	return plan, nil
}

// Preview computes the selection plan without writing anything.
func (s *SelectionService) Preview(ctx context.Context, g game.Game) (selection.Plan, error) {
	rows, err := s.registrationRepo.ListByGame(ctx, g.ID)
	if err != nil {
		return selection.Plan{}, fmt.Errorf("list registrations game=%s: %w", g.ID, err)
	}

	pool := make([]registration.Registration, 0, len(rows))
	playerIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if !row.Status.Candidate() {
			continue
		}
		pool = append(pool, row)
		playerIDs = append(playerIDs, row.PlayerID)
	}

	ratings, err := s.ratingRepo.ListByPlayerIDs(ctx, playerIDs)
	if err != nil {
		return selection.Plan{}, fmt.Errorf("list ratings game=%s: %w", g.ID, err)
	}

	candidates := make([]selection.Candidate, 0, len(pool))
	for _, row := range pool {
		rating := ratings[row.PlayerID]
		candidates = append(candidates, selection.Candidate{
			PlayerID:     row.PlayerID,
			RegisteredAt: row.RegisteredAt,
			UsingToken:   row.UsingToken,
			Score:        selection.Score(rating.Caps, rating.ActiveBonuses, rating.ActivePenalties, rating.CurrentStreak),
		})
	}

	plan, err := s.engine.Plan(g, candidates)
	if err != nil {
		return selection.Plan{}, fmt.Errorf("plan selection game=%s: %w", g.ID, err)
	}
	return plan, nil
}
