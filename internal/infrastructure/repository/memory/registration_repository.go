package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/registration"
)

type RegistrationRepository struct {
	mu     sync.RWMutex
	byGame map[string]map[string]registration.Registration
	now    func() time.Time
}

func NewRegistrationRepository(items []registration.Registration) *RegistrationRepository {
	r := &RegistrationRepository{
		byGame: make(map[string]map[string]registration.Registration),
		now:    time.Now,
	}
	for _, item := range items {
		r.put(item)
	}
	return r
}

func (r *RegistrationRepository) ListByGame(_ context.Context, gameID string) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byGame[gameID]
	out := make([]registration.Registration, 0, len(rows))
	for _, item := range rows {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.Before(out[j].RegisteredAt)
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *RegistrationRepository) Get(_ context.Context, gameID, playerID string) (registration.Registration, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byGame[gameID][playerID]
	return item, ok, nil
}

func (r *RegistrationRepository) Create(_ context.Context, item registration.Registration) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byGame[item.GameID][item.PlayerID]; exists {
		return fmt.Errorf("%w: game=%s player=%s", registration.ErrAlreadyRegistered, item.GameID, item.PlayerID)
	}
	r.put(item)
	return nil
}

func (r *RegistrationRepository) Rejoin(_ context.Context, item registration.Registration) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byGame[item.GameID][item.PlayerID]
	if !ok || current.Status != registration.StatusDroppedOut {
		return fmt.Errorf("%w: game=%s player=%s", registration.ErrAlreadyRegistered, item.GameID, item.PlayerID)
	}
	r.put(item)
	return nil
}

func (r *RegistrationRepository) UpdateStatus(_ context.Context, gameID, playerID string, status registration.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byGame[gameID][playerID]
	if !ok {
		return fmt.Errorf("registration game=%s player=%s not found", gameID, playerID)
	}
	item.Status = status
	if status != registration.StatusSelected {
		item.RandomlySelected = false
		item.Team = registration.TeamNone
	}
	item.UpdatedAt = r.now().UTC()
	r.byGame[gameID][playerID] = item
	return nil
}

func (r *RegistrationRepository) ApplySelection(_ context.Context, gameID string, outcomes []registration.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byGame[gameID]
	for _, outcome := range outcomes {
		if _, ok := rows[outcome.PlayerID]; !ok {
			return fmt.Errorf("registration game=%s player=%s not found", gameID, outcome.PlayerID)
		}
	}

	now := r.now().UTC()
	for _, outcome := range outcomes {
		item := rows[outcome.PlayerID]
		item.Status = outcome.Status
		item.RandomlySelected = outcome.RandomlySelected
		item.Team = registration.TeamNone
		item.UpdatedAt = now
		rows[outcome.PlayerID] = item
	}
	return nil
}

func (r *RegistrationRepository) AssignTeams(_ context.Context, gameID string, assignments []registration.TeamAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byGame[gameID]
	for _, assignment := range assignments {
		item, ok := rows[assignment.PlayerID]
		if !ok {
			return fmt.Errorf("registration game=%s player=%s not found", gameID, assignment.PlayerID)
		}
		if item.Status != registration.StatusSelected {
			return fmt.Errorf("%w: player=%s is %s", registration.ErrInvariant, item.PlayerID, item.Status)
		}
	}

	now := r.now().UTC()
	for _, assignment := range assignments {
		item := rows[assignment.PlayerID]
		item.Team = assignment.Team
		item.UpdatedAt = now
		rows[assignment.PlayerID] = item
	}
	return nil
}

func (r *RegistrationRepository) put(item registration.Registration) {
	rows, ok := r.byGame[item.GameID]
	if !ok {
		rows = make(map[string]registration.Registration)
		r.byGame[item.GameID] = rows
	}
	rows[item.PlayerID] = item
}
