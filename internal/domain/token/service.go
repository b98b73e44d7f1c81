package token

import (
	"context"
	"errors"
)

var ErrNotHeld = errors.New("token not held for game")

// Reservation reports what a Reserve call did to the player's balance.
type Reservation string

const (
	Unavailable Reservation = "unavailable"
	// Debited means this call took the token; only its caller may return it.
	Debited Reservation = "debited"
	// AlreadyHeld means an earlier call holds the token for the same game.
	AlreadyHeld Reservation = "already_held"
)

// Held reports whether the player holds a token for the game.
func (r Reservation) Held() bool {
	return r == Debited || r == AlreadyHeld
}

// Service reserves priority tokens that guarantee a player a slot.
type Service interface {
	Reserve(ctx context.Context, playerID, gameID string) (Reservation, error)
	Return(ctx context.Context, playerID, gameID string) error
}
