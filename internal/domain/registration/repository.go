package registration

import "context"

// Repository exposes registration persistence operations.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Registration, error)
	Get(ctx context.Context, gameID, playerID string) (Registration, bool, error)
	Create(ctx context.Context, item Registration) error
	UpdateStatus(ctx context.Context, gameID, playerID string, status Status) error
	// Rejoin replaces a dropped_out row with item. It returns
	// ErrAlreadyRegistered when the row is no longer dropped out.
	Rejoin(ctx context.Context, item Registration) error
	// ApplySelection writes every outcome atomically and clears teams.
	ApplySelection(ctx context.Context, gameID string, outcomes []Outcome) error
	// AssignTeams writes every team atomically.
	AssignTeams(ctx context.Context, gameID string, assignments []TeamAssignment) error
}
