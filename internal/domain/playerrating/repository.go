package playerrating

import "context"

type Repository interface {
	ListByPlayerIDs(ctx context.Context, playerIDs []string) (map[string]Snapshot, error)
}
