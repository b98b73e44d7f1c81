package game

import (
	"errors"
	"testing"
	"time"
)

func validGame() Game {
	start := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	return Game{
		ID:                      "game-1",
		Status:                  StatusUpcoming,
		RegistrationWindowStart: start,
		RegistrationWindowEnd:   start.Add(24 * time.Hour),
		TeamAnnouncementTime:    start.Add(30 * time.Hour),
		MaxPlayers:              18,
		RandomSlots:             2,
	}
}

func TestGame_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Game)
		targetErr error
	}{
		{name: "valid", mutate: func(*Game) {}},
		{name: "all random slots", mutate: func(g *Game) { g.RandomSlots = g.MaxPlayers }},
		{name: "negative random slots", mutate: func(g *Game) { g.RandomSlots = -1 }, targetErr: ErrInvalidConfig},
		{name: "random exceeds max", mutate: func(g *Game) { g.RandomSlots = 19 }, targetErr: ErrInvalidConfig},
		{name: "zero max players", mutate: func(g *Game) { g.MaxPlayers = 0; g.RandomSlots = 0 }, targetErr: ErrInvalidConfig},
		{name: "window reversed", mutate: func(g *Game) { g.RegistrationWindowEnd = g.RegistrationWindowStart.Add(-time.Hour) }, targetErr: ErrInvalidConfig},
		{name: "announcement before close", mutate: func(g *Game) { g.TeamAnnouncementTime = g.RegistrationWindowEnd.Add(-time.Hour) }, targetErr: ErrInvalidConfig},
		{name: "unknown status", mutate: func(g *Game) { g.Status = "paused" }, targetErr: ErrInvalidStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := validGame()
			tc.mutate(&g)
			err := g.Validate()
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("expected valid game, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestStatus_CanAdvanceTo(t *testing.T) {
	for _, status := range AllStatuses {
		next, ok := status.Next()
		if !ok {
			if !status.Terminal() {
				t.Fatalf("non-terminal status %s has no successor", status)
			}
			continue
		}
		if err := status.CanAdvanceTo(next); err != nil {
			t.Fatalf("expected %s -> %s to be legal: %v", status, next, err)
		}
		if err := next.CanAdvanceTo(status); !errors.Is(err, ErrBackwardStatus) {
			t.Fatalf("expected %s -> %s to be rejected as backwards, got %v", next, status, err)
		}
	}

	if err := StatusUpcoming.CanAdvanceTo(StatusTeamsAnnounced); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected skipping states to be rejected, got %v", err)
	}
	if err := StatusTeamsAnnounced.CanAdvanceTo(StatusTeamsAnnounced); err != nil {
		t.Fatalf("expected re-announce to be allowed, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" Players_Announced ")
	if err != nil || got != StatusPlayersAnnounced {
		t.Fatalf("unexpected parse result: got=%q err=%v", got, err)
	}
	if _, err := ParseStatus("cancelled"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
