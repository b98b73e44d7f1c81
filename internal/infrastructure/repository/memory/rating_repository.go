package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
)

type RatingRepository struct {
	mu    sync.RWMutex
	items map[string]playerrating.Snapshot
}

func NewRatingRepository(snapshots []playerrating.Snapshot) *RatingRepository {
	items := make(map[string]playerrating.Snapshot, len(snapshots))
	for _, item := range snapshots {
		items[item.PlayerID] = item
	}
	return &RatingRepository{items: items}
}

// ListByPlayerIDs returns only known players; callers treat a missing
// player as a zero snapshot.
func (r *RatingRepository) ListByPlayerIDs(_ context.Context, playerIDs []string) (map[string]playerrating.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]playerrating.Snapshot, len(playerIDs))
	for _, playerID := range playerIDs {
		if item, ok := r.items[playerID]; ok {
			out[playerID] = item
		}
	}
	return out, nil
}
