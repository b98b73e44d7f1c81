package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	idgen "github.com/riskibarqy/pickup-football/internal/platform/id"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

type ScheduleGameInput struct {
	ID                      string
	Venue                   string    `validate:"max=128"`
	RegistrationWindowStart time.Time `validate:"required"`
	RegistrationWindowEnd   time.Time `validate:"required,gtefield=RegistrationWindowStart"`
	TeamAnnouncementTime    time.Time `validate:"required,gtefield=RegistrationWindowEnd"`
	MaxPlayers              int       `validate:"gte=1,lte=64"`
	RandomSlots             int       `validate:"gte=0,ltefield=MaxPlayers"`
}

// GameView is the read model behind the status command.
type GameView struct {
	Game          game.Game
	Registrations []registration.Registration
	Assignment    *teamassignment.Assignment
	AnnounceState transition.State
	Events        []transition.Event
}

type GameService struct {
	gameRepo         game.Repository
	registrationRepo registration.Repository
	assignmentRepo   teamassignment.Repository
	transitionRepo   transition.Repository
	idGen            idgen.Generator
	validator        *validator.Validate
	logger           *logging.Logger
	now              func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	registrationRepo registration.Repository,
	assignmentRepo teamassignment.Repository,
	transitionRepo transition.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if idGen == nil {
		idGen = idgen.NewPrefixedGenerator("game")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GameService{
		gameRepo:         gameRepo,
		registrationRepo: registrationRepo,
		assignmentRepo:   assignmentRepo,
		transitionRepo:   transitionRepo,
		idGen:            idGen,
		validator:        validator.New(),
		logger:           logger,
		now:              time.Now,
	}
}

// Schedule creates an upcoming game.
func (s *GameService) Schedule(ctx context.Context, input ScheduleGameInput) (game.Game, error) {
	if err := s.validator.StructCtx(ctx, input); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	gameID := strings.TrimSpace(input.ID)
	if gameID == "" {
		generated, err := s.idGen.NewID()
		if err != nil {
			return game.Game{}, fmt.Errorf("generate game id: %w", err)
		}
		gameID = generated
	}

	now := s.now().UTC()
	item := game.Game{
		ID:                      gameID,
		Venue:                   strings.TrimSpace(input.Venue),
		Status:                  game.StatusUpcoming,
		RegistrationWindowStart: input.RegistrationWindowStart.UTC(),
		RegistrationWindowEnd:   input.RegistrationWindowEnd.UTC(),
		TeamAnnouncementTime:    input.TeamAnnouncementTime.UTC(),
		MaxPlayers:              input.MaxPlayers,
		RandomSlots:             input.RandomSlots,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.gameRepo.Create(ctx, item); err != nil {
		return game.Game{}, classify(fmt.Errorf("create game=%s: %w", item.ID, err))
	}

	s.logger.InfoContext(ctx, "game scheduled",
		"game_id", item.ID,
		"max_players", item.MaxPlayers,
		"random_slots", item.RandomSlots,
		"registration_window_start", item.RegistrationWindowStart,
	)
	return item, nil
}

func (s *GameService) Get(ctx context.Context, gameID string) (GameView, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return GameView{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return GameView{}, fmt.Errorf("get game=%s: %w", gameID, err)
	}
	if !exists {
		return GameView{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	view := GameView{Game: item}
	view.Registrations, err = s.registrationRepo.ListByGame(ctx, gameID)
	if err != nil {
		return GameView{}, fmt.Errorf("list registrations game=%s: %w", gameID, err)
	}

	assignment, ok, err := s.assignmentRepo.GetCurrent(ctx, gameID)
	if err != nil {
		return GameView{}, fmt.Errorf("get team assignment game=%s: %w", gameID, err)
	}
	if ok {
		view.Assignment = &assignment
	}

	view.AnnounceState, err = s.transitionRepo.GetState(ctx, gameID, transition.KindAnnounceTeams)
	if err != nil {
		return GameView{}, fmt.Errorf("get announce state game=%s: %w", gameID, err)
	}
	view.Events, err = s.transitionRepo.ListEvents(ctx, gameID)
	if err != nil {
		return GameView{}, fmt.Errorf("list transition events game=%s: %w", gameID, err)
	}
	return view, nil
}
