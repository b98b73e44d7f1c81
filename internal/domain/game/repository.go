package game

import "context"

// Repository exposes game persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Game, bool, error)
	ListActive(ctx context.Context) ([]Game, error)
	Create(ctx context.Context, game Game) error
	// UpdateStatus moves the game from expected to next. It returns
	// ErrStatusConflict when the stored status is no longer expected.
	UpdateStatus(ctx context.Context, id string, expected, next Status) error
}
