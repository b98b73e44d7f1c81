package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/balance"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
	idgen "github.com/riskibarqy/pickup-football/internal/platform/id"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

// TeamBalanceService splits the selected players into blue and orange.
type TeamBalanceService struct {
	gameRepo         game.Repository
	registrationRepo registration.Repository
	ratingRepo       playerrating.Repository
	assignmentRepo   teamassignment.Repository
	balancer         *balance.Balancer
	idGen            idgen.Generator
	logger           *logging.Logger
	now              func() time.Time
}

func NewTeamBalanceService(
	gameRepo game.Repository,
	registrationRepo registration.Repository,
	ratingRepo playerrating.Repository,
	assignmentRepo teamassignment.Repository,
	balancer *balance.Balancer,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamBalanceService {
	if balancer == nil {
		balancer = balance.NewBalancer(balance.DefaultConfig())
	}
	if idGen == nil {
		idGen = idgen.NewPrefixedGenerator("bta")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamBalanceService{
		gameRepo:         gameRepo,
		registrationRepo: registrationRepo,
		ratingRepo:       ratingRepo,
		assignmentRepo:   assignmentRepo,
		balancer:         balancer,
		idGen:            idGen,
		logger:           logger,
		now:              time.Now,
	}
}

// Announce balances the selected players, stores the assignment and the
// per-player team, and finally moves the game to teams_announced.
func (s *TeamBalanceService) Announce(ctx context.Context, g game.Game) (teamassignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamBalanceService.Announce", g.ID)
	var err error
	defer func() { endSpan(span, err) }()

	if g.Status != game.StatusPlayersAnnounced && g.Status != game.StatusTeamsAnnounced {
		err = fmt.Errorf("%w: announce requires selected players, got status %s", ErrInvalidInput, g.Status)
		return teamassignment.Assignment{}, err
	}

	rows, err := s.registrationRepo.ListByGame(ctx, g.ID)
	if err != nil {
		err = fmt.Errorf("list registrations game=%s: %w", g.ID, err)
		return teamassignment.Assignment{}, err
	}

	selected := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Status == registration.StatusSelected {
			selected = append(selected, row.PlayerID)
		}
	}
	if len(selected) > g.MaxPlayers {
		err = fmt.Errorf("%w: game=%s has %d selected players for %d slots", ErrInvariant, g.ID, len(selected), g.MaxPlayers)
		return teamassignment.Assignment{}, err
	}

	ratings, err := s.ratingRepo.ListByPlayerIDs(ctx, selected)
	if err != nil {
		err = fmt.Errorf("list ratings game=%s: %w", g.ID, err)
		return teamassignment.Assignment{}, err
	}

	players := make([]balance.Player, 0, len(selected))
	for _, playerID := range selected {
		rating := ratings[playerID]
		players = append(players, balance.Player{
			ID:            playerID,
			AttackRating:  rating.AttackRating,
			DefenseRating: rating.DefenseRating,
			WinRate:       rating.WinRate,
		})
	}

	result, err := s.balancer.Balance(players)
	if err != nil {
		err = fmt.Errorf("balance teams game=%s: %w", g.ID, err)
		return teamassignment.Assignment{}, err
	}

	assignmentID, err := s.idGen.NewID()
	if err != nil {
		err = fmt.Errorf("generate assignment id: %w", err)
		return teamassignment.Assignment{}, err
	}
	assignment := teamassignment.Assignment{
		ID:         assignmentID,
		GameID:     g.ID,
		BlueTeam:   result.BlueIDs(),
		OrangeTeam: result.OrangeIDs(),
		Stats:      result.Stats,
		Method:     result.Method,
		CreatedAt:  s.now().UTC(),
	}

	teams := make([]registration.TeamAssignment, 0, len(players))
	for _, playerID := range assignment.BlueTeam {
		teams = append(teams, registration.TeamAssignment{PlayerID: playerID, Team: registration.TeamBlue})
	}
	for _, playerID := range assignment.OrangeTeam {
		teams = append(teams, registration.TeamAssignment{PlayerID: playerID, Team: registration.TeamOrange})
	}

	if err = s.assignmentRepo.Replace(ctx, assignment); err != nil {
		err = fmt.Errorf("store team assignment game=%s: %w", g.ID, err)
		return teamassignment.Assignment{}, err
	}
	if err = s.registrationRepo.AssignTeams(ctx, g.ID, teams); err != nil {
		err = fmt.Errorf("assign teams game=%s: %w", g.ID, err)
		return teamassignment.Assignment{}, err
	}
	if g.Status == game.StatusPlayersAnnounced {
		if err = s.gameRepo.UpdateStatus(ctx, g.ID, game.StatusPlayersAnnounced, game.StatusTeamsAnnounced); err != nil {
			err = fmt.Errorf("advance game=%s to %s: %w", g.ID, game.StatusTeamsAnnounced, err)
			return teamassignment.Assignment{}, err
		}
	}

	s.logger.InfoContext(ctx, "teams balanced",
		"game_id", g.ID,
		"method", result.Method,
		"blue", len(assignment.BlueTeam),
		"orange", len(assignment.OrangeTeam),
		"total_diff", result.Stats.TotalDiff,
	)
	return assignment, nil
}
