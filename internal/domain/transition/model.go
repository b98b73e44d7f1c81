package transition

import (
	"fmt"
	"time"
)

// Kind names a state-machine transition driven by the orchestrator.
type Kind string

const (
	KindOpen          Kind = "open"
	KindClose         Kind = "close"
	KindAnnounceTeams Kind = "announce_teams"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindOpen, KindClose, KindAnnounceTeams:
		return Kind(raw), nil
	default:
		return "", fmt.Errorf("unknown transition kind %q", raw)
	}
}

type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeSkipped   Outcome = "skipped"
)

// State tracks bounded retries for one transition of one game.
type State struct {
	GameID    string
	Kind      Kind
	Attempts  int
	Exhausted bool
	LastError string
	UpdatedAt time.Time
}

// Event is one entry of the transition audit log.
type Event struct {
	ID         string
	GameID     string
	Kind       Kind
	Outcome    Outcome
	Attempt    int
	Message    string
	Payload    map[string]any
	OccurredAt time.Time
	TraceID    string
	SpanID     string
}
