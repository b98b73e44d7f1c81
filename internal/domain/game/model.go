package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidConfig  = errors.New("invalid game config")
	ErrInvalidStatus  = errors.New("invalid game status")
	ErrStatusConflict = errors.New("game status changed concurrently")
	ErrBackwardStatus = errors.New("game status cannot move backwards")
)

// Status is the lifecycle position of a game. Progression is forward only.
type Status string

const (
	StatusUpcoming         Status = "upcoming"
	StatusOpen             Status = "open"
	StatusPlayersAnnounced Status = "players_announced"
	StatusTeamsAnnounced   Status = "teams_announced"
	StatusCompleted        Status = "completed"
)

var AllStatuses = []Status{
	StatusUpcoming,
	StatusOpen,
	StatusPlayersAnnounced,
	StatusTeamsAnnounced,
	StatusCompleted,
}

func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	return s.rank() >= 0
}

func (s Status) rank() int {
	switch s {
	case StatusUpcoming:
		return 0
	case StatusOpen:
		return 1
	case StatusPlayersAnnounced:
		return 2
	case StatusTeamsAnnounced:
		return 3
	case StatusCompleted:
		return 4
	default:
		return -1
	}
}

// Next returns the status that follows s, or false for the terminal state.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusUpcoming:
		return StatusOpen, true
	case StatusOpen:
		return StatusPlayersAnnounced, true
	case StatusPlayersAnnounced:
		return StatusTeamsAnnounced, true
	case StatusTeamsAnnounced:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// CanAdvanceTo reports whether moving from s to next is a legal transition.
// Re-announcing teams is the only same-state transition allowed.
func (s Status) CanAdvanceTo(next Status) error {
	if !s.Valid() || !next.Valid() {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidStatus, s, next)
	}
	if s == StatusTeamsAnnounced && next == StatusTeamsAnnounced {
		return nil
	}
	if next.rank() <= s.rank() {
		return fmt.Errorf("%w: %s -> %s", ErrBackwardStatus, s, next)
	}
	if expected, _ := s.Next(); expected != next {
		return fmt.Errorf("%w: %s cannot skip to %s", ErrInvalidStatus, s, next)
	}
	return nil
}

func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Game is one scheduled pickup session.
type Game struct {
	ID                      string
	Venue                   string
	Status                  Status
	RegistrationWindowStart time.Time
	RegistrationWindowEnd   time.Time
	TeamAnnouncementTime    time.Time
	MaxPlayers              int
	RandomSlots             int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// MeritSlots is the number of slots filled by XP rank.
func (g Game) MeritSlots() int {
	return g.MaxPlayers - g.RandomSlots
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidConfig)
	}
	if !g.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidStatus, g.Status)
	}
	if g.MaxPlayers < 1 {
		return fmt.Errorf("%w: max_players must be >= 1, got %d", ErrInvalidConfig, g.MaxPlayers)
	}
	if g.RandomSlots < 0 || g.RandomSlots > g.MaxPlayers {
		return fmt.Errorf("%w: random_slots must be within [0, %d], got %d", ErrInvalidConfig, g.MaxPlayers, g.RandomSlots)
	}
	if g.RegistrationWindowStart.IsZero() || g.RegistrationWindowEnd.IsZero() || g.TeamAnnouncementTime.IsZero() {
		return fmt.Errorf("%w: registration window and team announcement time are required", ErrInvalidConfig)
	}
	if g.RegistrationWindowEnd.Before(g.RegistrationWindowStart) {
		return fmt.Errorf("%w: registration window ends before it starts", ErrInvalidConfig)
	}
	if g.TeamAnnouncementTime.Before(g.RegistrationWindowEnd) {
		return fmt.Errorf("%w: team announcement precedes registration close", ErrInvalidConfig)
	}
	return nil
}
