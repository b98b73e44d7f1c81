package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/usecase"
	"github.com/stretchr/testify/require"
)

func sampleView() usecase.GameView {
	start := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	return usecase.GameView{
		Game: game.Game{
			ID:                      "game-1",
			Venue:                   "Lapangan Senayan B",
			Status:                  game.StatusTeamsAnnounced,
			RegistrationWindowStart: start,
			RegistrationWindowEnd:   start.Add(2 * time.Hour),
			TeamAnnouncementTime:    start.Add(3 * time.Hour),
			MaxPlayers:              2,
		},
		Registrations: []registration.Registration{
			{GameID: "game-1", PlayerID: "player-001", Status: registration.StatusSelected, Team: registration.TeamBlue},
			{GameID: "game-1", PlayerID: "player-002", Status: registration.StatusSelected, Team: registration.TeamOrange, UsingToken: true},
			{GameID: "game-1", PlayerID: "player-003", Status: registration.StatusReserve},
		},
		Assignment: &teamassignment.Assignment{
			ID:         "bta_1",
			GameID:     "game-1",
			BlueTeam:   []string{"player-001"},
			OrangeTeam: []string{"player-002"},
			Stats:      teamassignment.Stats{TotalDiff: 4.5},
			Method:     "exhaustive",
		},
		AnnounceState: transition.State{GameID: "game-1", Kind: transition.KindAnnounceTeams, Attempts: 1},
		Events: []transition.Event{
			{Kind: transition.KindAnnounceTeams, Outcome: transition.OutcomeCompleted, Attempt: 2, OccurredAt: start.Add(3 * time.Hour)},
		},
	}
}

func TestPrinter_ViewText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, false).view(sampleView()))

	out := buf.String()
	for _, want := range []string{"game-1", "teams_announced", "player-003", "reserve", "blue:   player-001", "diff:   4.50 (exhaustive)", "announce_teams"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "blocked") || strings.Contains(out, "next check") {
		t.Fatalf("unexpected notice for announced teams:\n%s", out)
	}
}

func TestPrinter_ViewNextCheck(t *testing.T) {
	view := sampleView()
	view.Game.Status = game.StatusOpen
	view.Assignment = nil

	var buf bytes.Buffer
	p := newPrinter(&buf, true)
	p.now = func() time.Time { return view.Game.RegistrationWindowStart.Add(time.Hour) }
	require.NoError(t, p.view(view))

	var decoded statusOutput
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	if decoded.NextCheck == nil || !decoded.NextCheck.Equal(view.Game.RegistrationWindowEnd) {
		t.Fatalf("unexpected next check: got=%v want=%v", decoded.NextCheck, view.Game.RegistrationWindowEnd)
	}
}

func TestPrinter_ViewJSON(t *testing.T) {
	view := sampleView()
	view.AnnounceState.Exhausted = true

	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, true).view(view))

	var decoded statusOutput
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	if decoded.Game.Status != string(game.StatusTeamsAnnounced) {
		t.Fatalf("unexpected status: got=%s", decoded.Game.Status)
	}
	if !decoded.AnnounceBlocked || decoded.AnnounceAttempts != 1 {
		t.Fatalf("unexpected announce state: %+v", decoded)
	}
	if decoded.Teams == nil || len(decoded.Teams.Blue) != 1 {
		t.Fatalf("unexpected teams: %+v", decoded.Teams)
	}
	if len(decoded.Registrations) != 3 || decoded.Registrations[1].Team != "orange" {
		t.Fatalf("unexpected registrations: %+v", decoded.Registrations)
	}
}

func TestPrinter_Transition(t *testing.T) {
	var buf bytes.Buffer
	err := newPrinter(&buf, false).transition(usecase.TransitionResult{
		GameID:  "game-1",
		Kind:    transition.KindOpen,
		Outcome: transition.OutcomeCompleted,
		From:    game.StatusUpcoming,
		To:      game.StatusOpen,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "game-1 open: completed (upcoming -> open)\n", buf.String())

	failure := usecase.ErrTransitionBusy
	require.ErrorIs(t, newPrinter(&buf, false).transition(usecase.TransitionResult{}, failure), failure)
}
