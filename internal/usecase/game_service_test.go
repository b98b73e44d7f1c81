package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/infrastructure/repository/memory"
	gamemock "github.com/riskibarqy/pickup-football/internal/mocks/domain/game"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validScheduleInput() ScheduleGameInput {
	return ScheduleGameInput{
		ID:                      "game-42",
		Venue:                   "Field B",
		RegistrationWindowStart: fixtureStart,
		RegistrationWindowEnd:   fixtureStart.Add(time.Hour),
		TeamAnnouncementTime:    fixtureStart.Add(90 * time.Minute),
		MaxPlayers:              18,
		RandomSlots:             2,
	}
}

func TestGameService_Schedule(t *testing.T) {
	t.Parallel()

	games := memory.NewGameRepository(nil)
	svc := NewGameService(games, memory.NewRegistrationRepository(nil), memory.NewAssignmentRepository(), memory.NewTransitionRepository(), nil, logging.NewNop())

	item, err := svc.Schedule(context.Background(), validScheduleInput())
	require.NoError(t, err)
	require.Equal(t, game.StatusUpcoming, item.Status)
	require.Equal(t, 16, item.MeritSlots())

	stored, ok, err := games.GetByID(context.Background(), "game-42")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, item, stored)
}

func TestGameService_Schedule_GeneratesID(t *testing.T) {
	t.Parallel()

	svc := NewGameService(memory.NewGameRepository(nil), memory.NewRegistrationRepository(nil), memory.NewAssignmentRepository(), memory.NewTransitionRepository(), nil, logging.NewNop())
	input := validScheduleInput()
	input.ID = ""

	item, err := svc.Schedule(context.Background(), input)
	require.NoError(t, err)
	require.Regexp(t, `^game_[0-9a-f]{24}$`, item.ID)
}

func TestGameService_Schedule_InvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*ScheduleGameInput)
	}{
		{name: "zero max players", mutate: func(in *ScheduleGameInput) { in.MaxPlayers = 0 }},
		{name: "random slots above max", mutate: func(in *ScheduleGameInput) { in.RandomSlots = 19 }},
		{name: "negative random slots", mutate: func(in *ScheduleGameInput) { in.RandomSlots = -1 }},
		{name: "window ends before start", mutate: func(in *ScheduleGameInput) { in.RegistrationWindowEnd = fixtureStart.Add(-time.Minute) }},
		{name: "announcement before close", mutate: func(in *ScheduleGameInput) { in.TeamAnnouncementTime = fixtureStart.Add(30 * time.Minute) }},
		{name: "missing window start", mutate: func(in *ScheduleGameInput) { in.RegistrationWindowStart = time.Time{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			games := gamemock.NewRepository(t)
			svc := NewGameService(games, memory.NewRegistrationRepository(nil), memory.NewAssignmentRepository(), memory.NewTransitionRepository(), nil, logging.NewNop())
			input := validScheduleInput()
			tc.mutate(&input)

			_, err := svc.Schedule(context.Background(), input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidInput)
			}
		})
	}
}

func TestGameService_Schedule_StoreFailure(t *testing.T) {
	t.Parallel()

	games := gamemock.NewRepository(t)
	games.On("Create", mock.Anything, mock.AnythingOfType("game.Game")).Return(errors.New("connection refused")).Once()
	svc := NewGameService(games, memory.NewRegistrationRepository(nil), memory.NewAssignmentRepository(), memory.NewTransitionRepository(), nil, logging.NewNop())

	_, err := svc.Schedule(context.Background(), validScheduleInput())
	require.Error(t, err)
	require.True(t, IsTransient(err))
}

func TestGameService_Get(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(t, fixtureGame(game.StatusUpcoming), nil, nil)
	_, err := f.service.OpenRegistration(context.Background(), "game-1")
	require.NoError(t, err)

	svc := NewGameService(f.games, f.regs, memory.NewAssignmentRepository(), f.transitions, nil, logging.NewNop())
	view, err := svc.Get(context.Background(), "game-1")
	require.NoError(t, err)
	require.Equal(t, game.StatusOpen, view.Game.Status)
	require.Nil(t, view.Assignment)
	require.Equal(t, transition.KindAnnounceTeams, view.AnnounceState.Kind)
	require.Len(t, view.Events, 2)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
