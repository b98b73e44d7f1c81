package window

import (
	"testing"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
)

func sampleGame(status game.Status) game.Game {
	start := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	return game.Game{
		ID:                      "game-1",
		Status:                  status,
		RegistrationWindowStart: start,
		RegistrationWindowEnd:   start.Add(48 * time.Hour),
		TeamAnnouncementTime:    start.Add(72 * time.Hour),
		MaxPlayers:              18,
		RandomSlots:             2,
	}
}

func TestDue(t *testing.T) {
	g := sampleGame(game.StatusUpcoming)

	tests := []struct {
		name     string
		status   game.Status
		now      time.Time
		wantKind transition.Kind
		wantDue  bool
	}{
		{name: "before window", status: game.StatusUpcoming, now: g.RegistrationWindowStart.Add(-time.Second)},
		{name: "window start is inclusive", status: game.StatusUpcoming, now: g.RegistrationWindowStart, wantKind: transition.KindOpen, wantDue: true},
		{name: "open before end", status: game.StatusOpen, now: g.RegistrationWindowEnd.Add(-time.Minute)},
		{name: "open at end", status: game.StatusOpen, now: g.RegistrationWindowEnd, wantKind: transition.KindClose, wantDue: true},
		{name: "selected before announcement", status: game.StatusPlayersAnnounced, now: g.TeamAnnouncementTime.Add(-time.Minute)},
		{name: "selected after announcement", status: game.StatusPlayersAnnounced, now: g.TeamAnnouncementTime.Add(time.Hour), wantKind: transition.KindAnnounceTeams, wantDue: true},
		{name: "teams announced is done", status: game.StatusTeamsAnnounced, now: g.TeamAnnouncementTime.Add(time.Hour)},
		{name: "completed is done", status: game.StatusCompleted, now: g.TeamAnnouncementTime.Add(time.Hour)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := g
			item.Status = tc.status
			kind, due := Due(item, tc.now)
			if due != tc.wantDue || kind != tc.wantKind {
				t.Fatalf("unexpected due: got=(%q,%t) want=(%q,%t)", kind, due, tc.wantKind, tc.wantDue)
			}
		})
	}
}

func TestAllows_AnnounceToleratesRetryAfterPartialSuccess(t *testing.T) {
	g := sampleGame(game.StatusTeamsAnnounced)
	if !Allows(transition.KindAnnounceTeams, g, g.TeamAnnouncementTime) {
		t.Fatalf("expected announce guard to accept teams_announced status")
	}
	if Allows(transition.KindOpen, g, g.TeamAnnouncementTime) {
		t.Fatalf("expected open guard to reject teams_announced status")
	}
}

func TestNextBoundary(t *testing.T) {
	g := sampleGame(game.StatusOpen)
	now := g.RegistrationWindowStart

	at, ok := NextBoundary(g, now)
	if !ok || !at.Equal(g.RegistrationWindowEnd) {
		t.Fatalf("unexpected boundary: got=%v ok=%t", at, ok)
	}

	late := g.RegistrationWindowEnd.Add(time.Hour)
	at, ok = NextBoundary(g, late)
	if !ok || !at.Equal(late) {
		t.Fatalf("overdue boundary should clamp to now: got=%v", at)
	}

	if _, ok := NextBoundary(sampleGame(game.StatusCompleted), now); ok {
		t.Fatalf("completed game has no boundary")
	}
}
