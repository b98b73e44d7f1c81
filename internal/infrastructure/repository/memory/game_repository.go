package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
	now   func() time.Time
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, item := range games {
		items[item.ID] = item
	}
	return &GameRepository{items: items, now: time.Now}
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *GameRepository) ListActive(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		if item.Status.Terminal() {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegistrationWindowStart.Equal(out[j].RegistrationWindowStart) {
			return out[i].RegistrationWindowStart.Before(out[j].RegistrationWindowStart)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Create(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("game=%s already exists", item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *GameRepository) UpdateStatus(_ context.Context, id string, expected, next game.Status) error {
	if err := expected.CanAdvanceTo(next); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("game=%s not found", id)
	}
	if item.Status != expected {
		return fmt.Errorf("%w: game=%s expected=%s actual=%s", game.ErrStatusConflict, id, expected, item.Status)
	}
	item.Status = next
	item.UpdatedAt = r.now().UTC()
	r.items[id] = item
	return nil
}
