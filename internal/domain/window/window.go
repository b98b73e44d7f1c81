package window

import (
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
)

// Due reports which transition, if any, the clock makes eligible for g.
// It never looks at in-flight or retry state; that belongs to the caller.
func Due(g game.Game, now time.Time) (transition.Kind, bool) {
	switch g.Status {
	case game.StatusUpcoming:
		if reached(now, g.RegistrationWindowStart) {
			return transition.KindOpen, true
		}
	case game.StatusOpen:
		if reached(now, g.RegistrationWindowEnd) {
			return transition.KindClose, true
		}
	case game.StatusPlayersAnnounced:
		if reached(now, g.TeamAnnouncementTime) {
			return transition.KindAnnounceTeams, true
		}
	case game.StatusTeamsAnnounced, game.StatusCompleted:
		return "", false
	}
	return "", false
}

// Allows is the guard re-checked immediately before a transition acts.
func Allows(kind transition.Kind, g game.Game, now time.Time) bool {
	switch kind {
	case transition.KindOpen:
		return g.Status == game.StatusUpcoming && reached(now, g.RegistrationWindowStart)
	case transition.KindClose:
		return g.Status == game.StatusOpen && reached(now, g.RegistrationWindowEnd)
	case transition.KindAnnounceTeams:
		return (g.Status == game.StatusPlayersAnnounced || g.Status == game.StatusTeamsAnnounced) &&
			reached(now, g.TeamAnnouncementTime)
	default:
		return false
	}
}

// NextBoundary returns the next instant at which Due may change for g.
func NextBoundary(g game.Game, now time.Time) (time.Time, bool) {
	var at time.Time
	switch g.Status {
	case game.StatusUpcoming:
		at = g.RegistrationWindowStart
	case game.StatusOpen:
		at = g.RegistrationWindowEnd
	case game.StatusPlayersAnnounced:
		at = g.TeamAnnouncementTime
	default:
		return time.Time{}, false
	}
	if at.Before(now) {
		return now, true
	}
	return at, true
}

func reached(now, boundary time.Time) bool {
	return !boundary.IsZero() && !now.Before(boundary)
}
