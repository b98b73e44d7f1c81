package postgres

import (
	"time"

	"github.com/lib/pq"
)

type teamAssignmentTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	GamePublicID  string         `db:"game_public_id"`
	BlueTeam      pq.StringArray `db:"blue_team"`
	OrangeTeam    pq.StringArray `db:"orange_team"`
	BlueAttack    float64        `db:"blue_attack"`
	BlueDefense   float64        `db:"blue_defense"`
	OrangeAttack  float64        `db:"orange_attack"`
	OrangeDefense float64        `db:"orange_defense"`
	AttackDiff    float64        `db:"attack_diff"`
	DefenseDiff   float64        `db:"defense_diff"`
	TotalDiff     float64        `db:"total_diff"`
	WinRateDiff   float64        `db:"win_rate_diff"`
	Method        string         `db:"method"`
	CreatedAt     time.Time      `db:"created_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

type transitionStateTableModel struct {
	GamePublicID string    `db:"game_public_id"`
	Kind         string    `db:"kind"`
	Attempts     int       `db:"attempts"`
	Exhausted    bool      `db:"exhausted"`
	LastError    *string   `db:"last_error"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type transitionEventTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	GamePublicID string    `db:"game_public_id"`
	Kind         string    `db:"kind"`
	Outcome      string    `db:"outcome"`
	Attempt      int       `db:"attempt"`
	Message      string    `db:"message"`
	Payload      string    `db:"payload"`
	OccurredAt   time.Time `db:"occurred_at"`
	TraceID      *string   `db:"trace_id"`
	SpanID       *string   `db:"span_id"`
}
