package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
	basecache "github.com/riskibarqy/pickup-football/internal/platform/cache"
)

// RatingRepository caches rating snapshots per player.
type RatingRepository struct {
	next  playerrating.Repository
	cache *basecache.Store[playerrating.Snapshot]
}

func NewRatingRepository(next playerrating.Repository, cache *basecache.Store[playerrating.Snapshot]) *RatingRepository {
	return &RatingRepository{next: next, cache: cache}
}

func (r *RatingRepository) ListByPlayerIDs(ctx context.Context, playerIDs []string) (map[string]playerrating.Snapshot, error) {
	out := make(map[string]playerrating.Snapshot, len(playerIDs))
	missing := make([]string, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		if item, ok := r.cache.Get(ratingKey(playerID)); ok {
			out[playerID] = item
			continue
		}
		missing = append(missing, playerID)
	}
	if len(missing) == 0 {
		return out, nil
	}

	sort.Strings(missing)
	batchKey := "rating:batch:" + strings.Join(missing, ",")
	// The batch entry only exists to collapse concurrent identical loads.
	defer r.cache.Delete(batchKey)

	_, err := r.cache.GetOrLoad(ctx, batchKey, func(ctx context.Context) (playerrating.Snapshot, error) {
		loaded, err := r.next.ListByPlayerIDs(ctx, missing)
		if err != nil {
			return playerrating.Snapshot{}, err
		}
		for playerID, item := range loaded {
			r.cache.Set(ratingKey(playerID), item)
		}
		return playerrating.Snapshot{}, nil
	})
	if err != nil {
		return nil, err
	}

	for _, playerID := range missing {
		if item, ok := r.cache.Get(ratingKey(playerID)); ok {
			out[playerID] = item
		}
	}
	return out, nil
}

func ratingKey(playerID string) string {
	return "rating:player:" + playerID
}
