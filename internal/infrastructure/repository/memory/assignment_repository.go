package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
)

type AssignmentRepository struct {
	mu      sync.RWMutex
	current map[string]teamassignment.Assignment
	history []teamassignment.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{current: make(map[string]teamassignment.Assignment)}
}

func (r *AssignmentRepository) GetCurrent(_ context.Context, gameID string) (teamassignment.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.current[gameID]
	if !ok {
		return teamassignment.Assignment{}, false, nil
	}
	return cloneAssignment(item), true, nil
}

func (r *AssignmentRepository) Replace(_ context.Context, item teamassignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.current[item.GameID]; ok {
		r.history = append(r.history, previous)
	}
	r.current[item.GameID] = cloneAssignment(item)
	return nil
}

// Superseded returns assignments that were replaced by a rebalance.
func (r *AssignmentRepository) Superseded() []teamassignment.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teamassignment.Assignment, 0, len(r.history))
	for _, item := range r.history {
		out = append(out, cloneAssignment(item))
	}
	return out
}

func cloneAssignment(a teamassignment.Assignment) teamassignment.Assignment {
	copied := a
	copied.BlueTeam = append([]string(nil), a.BlueTeam...)
	copied.OrangeTeam = append([]string(nil), a.OrangeTeam...)
	return copied
}
