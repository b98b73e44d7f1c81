package postgres

import "time"

type gameTableModel struct {
	ID                      int64      `db:"id"`
	PublicID                string     `db:"public_id"`
	Venue                   string     `db:"venue"`
	Status                  string     `db:"status"`
	RegistrationWindowStart time.Time  `db:"registration_window_start"`
	RegistrationWindowEnd   time.Time  `db:"registration_window_end"`
	TeamAnnouncementTime    time.Time  `db:"team_announcement_time"`
	MaxPlayers              int        `db:"max_players"`
	RandomSlots             int        `db:"random_slots"`
	CreatedAt               time.Time  `db:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at"`
	DeletedAt               *time.Time `db:"deleted_at"`
}

type registrationTableModel struct {
	ID               int64     `db:"id"`
	GamePublicID     string    `db:"game_public_id"`
	PlayerID         string    `db:"player_id"`
	Status           string    `db:"status"`
	RandomlySelected bool      `db:"randomly_selected"`
	Team             string    `db:"team"`
	UsingToken       bool      `db:"using_token"`
	RegisteredAt     time.Time `db:"registered_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type playerRatingTableModel struct {
	PlayerID        string  `db:"player_id"`
	Caps            int     `db:"caps"`
	ActiveBonuses   int     `db:"active_bonuses"`
	ActivePenalties int     `db:"active_penalties"`
	CurrentStreak   int     `db:"current_streak"`
	AttackRating    float64 `db:"attack_rating"`
	DefenseRating   float64 `db:"defense_rating"`
	WinRate         float64 `db:"win_rate"`
}
