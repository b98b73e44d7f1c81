package playerrating

// Snapshot is the read-only rating view of one player. A player without
// a stored snapshot is treated as the zero value.
type Snapshot struct {
	PlayerID        string
	Caps            int
	ActiveBonuses   int
	ActivePenalties int
	CurrentStreak   int
	AttackRating    float64
	DefenseRating   float64
	WinRate         float64
}
