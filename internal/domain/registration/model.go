package registration

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus     = errors.New("invalid registration status")
	ErrInvalidTeam       = errors.New("invalid team")
	ErrInvariant         = errors.New("registration invariant violated")
	ErrAlreadyRegistered = errors.New("player already registered")
)

type Status string

const (
	StatusRegistered Status = "registered"
	StatusSelected   Status = "selected"
	StatusReserve    Status = "reserve"
	StatusDroppedOut Status = "dropped_out"
)

func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusRegistered, StatusSelected, StatusReserve, StatusDroppedOut:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Candidate reports whether the row takes part in selection. Dropped-out
// players never do.
func (s Status) Candidate() bool {
	switch s {
	case StatusRegistered, StatusSelected, StatusReserve:
		return true
	case StatusDroppedOut:
		return false
	default:
		return false
	}
}

type Team string

const (
	TeamNone   Team = ""
	TeamBlue   Team = "blue"
	TeamOrange Team = "orange"
)

func ParseTeam(raw string) (Team, error) {
	team := Team(strings.ToLower(strings.TrimSpace(raw)))
	switch team {
	case TeamNone, TeamBlue, TeamOrange:
		return team, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTeam, raw)
	}
}

// Registration is one player's relationship to one game.
type Registration struct {
	GameID           string
	PlayerID         string
	Status           Status
	RandomlySelected bool
	Team             Team
	UsingToken       bool
	RegisteredAt     time.Time
	UpdatedAt        time.Time
}

func (r Registration) Validate() error {
	if r.RandomlySelected && r.Status != StatusSelected {
		return fmt.Errorf("%w: player=%s randomly selected with status %s", ErrInvariant, r.PlayerID, r.Status)
	}
	if r.Team != TeamNone && r.Status != StatusSelected {
		return fmt.Errorf("%w: player=%s on team %s with status %s", ErrInvariant, r.PlayerID, r.Team, r.Status)
	}
	return nil
}

// Outcome is the result of the selection step for one player.
type Outcome struct {
	PlayerID         string
	Status           Status
	RandomlySelected bool
}

// TeamAssignment places one selected player on a team.
type TeamAssignment struct {
	PlayerID string
	Team     Team
}
