package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/token"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

type RegisterInput struct {
	GameID     string `validate:"required,max=64"`
	PlayerID   string `validate:"required,max=64"`
	UsingToken bool
}

// RegistrationService takes registrations while a game is open.
type RegistrationService struct {
	gameRepo         game.Repository
	registrationRepo registration.Repository
	tokens           token.Service
	validator        *validator.Validate
	logger           *logging.Logger
	now              func() time.Time
}

func NewRegistrationService(
	gameRepo game.Repository,
	registrationRepo registration.Repository,
	tokens token.Service,
	logger *logging.Logger,
) *RegistrationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationService{
		gameRepo:         gameRepo,
		registrationRepo: registrationRepo,
		tokens:           tokens,
		validator:        validator.New(),
		logger:           logger,
		now:              time.Now,
	}
}

// Register records a player for an open game. A player who dropped out
// rejoins at the back of the queue. A token is reserved before the write
// and handed back if the write fails and this call took it.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (registration.Registration, error) {
	input.GameID = strings.TrimSpace(input.GameID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if err := s.validator.StructCtx(ctx, input); err != nil {
		return registration.Registration{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return registration.Registration{}, classify(fmt.Errorf("get game=%s: %w", input.GameID, err))
	}
	if !exists {
		return registration.Registration{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}
	if g.Status != game.StatusOpen {
		return registration.Registration{}, fmt.Errorf("%w: game=%s status=%s", ErrRegistrationClosed, g.ID, g.Status)
	}

	existing, registered, err := s.registrationRepo.Get(ctx, g.ID, input.PlayerID)
	if err != nil {
		return registration.Registration{}, classify(fmt.Errorf("get registration game=%s player=%s: %w", g.ID, input.PlayerID, err))
	}
	rejoin := registered && existing.Status == registration.StatusDroppedOut
	if registered && !rejoin {
		return registration.Registration{}, fmt.Errorf("%w: game=%s player=%s", registration.ErrAlreadyRegistered, g.ID, input.PlayerID)
	}

	reservation := token.Unavailable
	if input.UsingToken {
		if s.tokens == nil {
			return registration.Registration{}, fmt.Errorf("%w: token service is not configured", ErrDependencyUnavailable)
		}
		reservation, err = s.tokens.Reserve(ctx, input.PlayerID, g.ID)
		if err != nil {
			return registration.Registration{}, classify(fmt.Errorf("reserve token player=%s: %w", input.PlayerID, err))
		}
		if !reservation.Held() {
			return registration.Registration{}, fmt.Errorf("%w: player=%s", ErrTokenUnavailable, input.PlayerID)
		}
	}

	now := s.now().UTC()
	item := registration.Registration{
		GameID:       g.ID,
		PlayerID:     input.PlayerID,
		Status:       registration.StatusRegistered,
		UsingToken:   input.UsingToken,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	write := s.registrationRepo.Create
	if rejoin {
		write = s.registrationRepo.Rejoin
	}
	if err := write(ctx, item); err != nil {
		if reservation == token.Debited {
			s.returnToken(ctx, input.PlayerID, g.ID)
		}
		if errors.Is(err, registration.ErrAlreadyRegistered) {
			return registration.Registration{}, err
		}
		return registration.Registration{}, classify(fmt.Errorf("create registration game=%s player=%s: %w", g.ID, input.PlayerID, err))
	}

	s.logger.InfoContext(ctx, "player registered", "game_id", g.ID, "player_id", input.PlayerID, "using_token", input.UsingToken, "rejoined", rejoin)
	return item, nil
}

// Withdraw drops a player out of an open game and hands back a held token.
func (s *RegistrationService) Withdraw(ctx context.Context, gameID, playerID string) error {
	gameID = strings.TrimSpace(gameID)
	playerID = strings.TrimSpace(playerID)
	if gameID == "" || playerID == "" {
		return fmt.Errorf("%w: game id and player id are required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return classify(fmt.Errorf("get game=%s: %w", gameID, err))
	}
	if !exists {
		return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if g.Status != game.StatusOpen {
		return fmt.Errorf("%w: game=%s status=%s", ErrRegistrationClosed, g.ID, g.Status)
	}

	item, registered, err := s.registrationRepo.Get(ctx, gameID, playerID)
	if err != nil {
		return classify(fmt.Errorf("get registration game=%s player=%s: %w", gameID, playerID, err))
	}
	if !registered {
		return fmt.Errorf("%w: registration game=%s player=%s", ErrNotFound, gameID, playerID)
	}
	if item.Status == registration.StatusDroppedOut {
		return nil
	}

	if err := s.registrationRepo.UpdateStatus(ctx, gameID, playerID, registration.StatusDroppedOut); err != nil {
		return classify(fmt.Errorf("drop out game=%s player=%s: %w", gameID, playerID, err))
	}
	if item.UsingToken {
		s.returnToken(ctx, playerID, gameID)
	}

	s.logger.InfoContext(ctx, "player withdrew", "game_id", gameID, "player_id", playerID)
	return nil
}

func (s *RegistrationService) returnToken(ctx context.Context, playerID, gameID string) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.Return(ctx, playerID, gameID); err != nil {
		s.logger.WarnContext(ctx, "return token failed", "game_id", gameID, "player_id", playerID, "error", err)
	}
}
