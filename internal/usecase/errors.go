package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickup-football/internal/domain/balance"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/selection"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrTransient marks store or collaborator failures worth retrying.
	ErrTransient = errors.New("transient failure")
	// ErrInvariant marks data problems that a retry cannot fix.
	ErrInvariant = errors.New("data invariant violated")
	// ErrRetriesExhausted means the transition needs manual intervention.
	ErrRetriesExhausted = errors.New("transition retries exhausted")
	// ErrTransitionBusy means another tick or replica holds the game.
	ErrTransitionBusy = errors.New("transition already in progress")

	ErrRegistrationClosed = errors.New("registration is not open")
	ErrTokenUnavailable   = errors.New("priority token unavailable")
)

// classify marks err as invariant or transient so callers can pick the
// right notification level and retry policy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvariant) || errors.Is(err, ErrTransient) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	switch {
	case errors.Is(err, balance.ErrInsufficientPlayers),
		errors.Is(err, balance.ErrDuplicatePlayer),
		errors.Is(err, selection.ErrInvalidSlots),
		errors.Is(err, selection.ErrDuplicatePlayer),
		errors.Is(err, registration.ErrInvariant),
		errors.Is(err, game.ErrInvalidConfig),
		errors.Is(err, game.ErrInvalidStatus),
		errors.Is(err, game.ErrBackwardStatus):
		return errors.Mark(err, ErrInvariant)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return errors.Mark(err, ErrTransient)
	}
}

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}
