package transition

import "context"

type Repository interface {
	GetState(ctx context.Context, gameID string, kind Kind) (State, error)
	SaveState(ctx context.Context, state State) error
	AppendEvent(ctx context.Context, event Event) error
	ListEvents(ctx context.Context, gameID string) ([]Event, error)
}
