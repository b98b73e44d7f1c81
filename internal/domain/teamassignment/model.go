package teamassignment

import "time"

// Stats summarises the strength of both teams in one assignment.
type Stats struct {
	BlueAttack    float64
	BlueDefense   float64
	OrangeAttack  float64
	OrangeDefense float64
	AttackDiff    float64
	DefenseDiff   float64
	TotalDiff     float64
	WinRateDiff   float64
}

// Assignment is the durable record of who played on which team. A newer
// assignment for the same game supersedes the previous one.
type Assignment struct {
	ID         string
	GameID     string
	BlueTeam   []string
	OrangeTeam []string
	Stats      Stats
	Method     string
	CreatedAt  time.Time
}
