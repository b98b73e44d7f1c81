package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pickup-football/internal/domain/transition"
)

type TransitionRepository struct {
	mu     sync.RWMutex
	states map[string]transition.State
	events map[string][]transition.Event
}

func NewTransitionRepository() *TransitionRepository {
	return &TransitionRepository{
		states: make(map[string]transition.State),
		events: make(map[string][]transition.Event),
	}
}

func (r *TransitionRepository) GetState(_ context.Context, gameID string, kind transition.Kind) (transition.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[stateKey(gameID, kind)]
	if !ok {
		return transition.State{GameID: gameID, Kind: kind}, nil
	}
	return state, nil
}

func (r *TransitionRepository) SaveState(_ context.Context, state transition.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[stateKey(state.GameID, state.Kind)] = state
	return nil
}

func (r *TransitionRepository) AppendEvent(_ context.Context, event transition.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.GameID] = append(r.events[event.GameID], event)
	return nil
}

func (r *TransitionRepository) ListEvents(_ context.Context, gameID string) ([]transition.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.events[gameID]
	out := make([]transition.Event, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func stateKey(gameID string, kind transition.Kind) string {
	return gameID + "::" + string(kind)
}
