package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/balance"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/selection"
	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
	"github.com/riskibarqy/pickup-football/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

var fixtureStart = time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

func fixtureGame(status game.Status) game.Game {
	return game.Game{
		ID:                      "game-1",
		Venue:                   "Field A",
		Status:                  status,
		RegistrationWindowStart: fixtureStart,
		RegistrationWindowEnd:   fixtureStart.Add(2 * time.Hour),
		TeamAnnouncementTime:    fixtureStart.Add(3 * time.Hour),
		MaxPlayers:              18,
		RandomSlots:             2,
		CreatedAt:               fixtureStart.Add(-24 * time.Hour),
		UpdatedAt:               fixtureStart.Add(-24 * time.Hour),
	}
}

func selectedRegistrations(gameID string, count int) []registration.Registration {
	rows := memory.SeedRegistrations(gameID, fixtureStart, count)
	for i := range rows {
		rows[i].Status = registration.StatusSelected
	}
	return rows
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (n *recordingNotifier) Notify(_ context.Context, item Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
	return nil
}

func (n *recordingNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}

func (n *recordingNotifier) terminal() []Notification {
	out := make([]Notification, 0)
	for _, item := range n.all() {
		if item.Terminal {
			out = append(out, item)
		}
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	c.now = at
	c.mu.Unlock()
}

type lifecycleFixture struct {
	games       *memory.GameRepository
	regs        *memory.RegistrationRepository
	ratings     *memory.RatingRepository
	transitions *memory.TransitionRepository
	notifier    *recordingNotifier
	clock       *fakeClock
	service     *LifecycleService
}

func newLifecycleFixture(t *testing.T, g game.Game, rows []registration.Registration, assignments teamassignment.Repository) *lifecycleFixture {
	t.Helper()

	if assignments == nil {
		assignments = memory.NewAssignmentRepository()
	}
	f := &lifecycleFixture{
		games:       memory.NewGameRepository([]game.Game{g}),
		regs:        memory.NewRegistrationRepository(rows),
		ratings:     memory.NewRatingRepository(memory.SeedRatings(40)),
		transitions: memory.NewTransitionRepository(),
		notifier:    &recordingNotifier{},
		clock:       &fakeClock{now: fixtureStart},
	}

	logger := logging.NewNop()
	selectionSvc := NewSelectionService(f.games, f.regs, f.ratings, selection.NewEngine(selection.NewSeededDrawer(7)), logger)
	teamSvc := NewTeamBalanceService(f.games, f.regs, f.ratings, assignments, balance.NewBalancer(balance.DefaultConfig()), nil, logger)
	teamSvc.now = f.clock.Now
	f.service = NewLifecycleService(f.games, f.transitions, selectionSvc, teamSvc, f.notifier, nil, nil, LifecycleConfig{}, logger)
	f.service.now = f.clock.Now
	return f
}

func (f *lifecycleFixture) status(t *testing.T, gameID string) game.Status {
	t.Helper()
	item, ok, err := f.games.GetByID(context.Background(), gameID)
	if err != nil || !ok {
		t.Fatalf("get game %s: ok=%v err=%v", gameID, ok, err)
	}
	return item.Status
}
