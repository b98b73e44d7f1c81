package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickup-football/internal/infrastructure/repository/memory"
)

// BootstrapSeed fills player_ratings with demo players when the table is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, players int) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM player_ratings`); err != nil {
		return fmt.Errorf("count player ratings for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO player_ratings (
    player_id, caps, active_bonuses, active_penalties, current_streak,
    attack_rating, defense_rating, win_rate
)
VALUES (
    :player_id, :caps, :active_bonuses, :active_penalties, :current_streak,
    :attack_rating, :defense_rating, :win_rate
)
ON CONFLICT (player_id) DO NOTHING`

	for _, item := range memory.SeedRatings(players) {
		model := playerRatingTableModel{
			PlayerID:        item.PlayerID,
			Caps:            item.Caps,
			ActiveBonuses:   item.ActiveBonuses,
			ActivePenalties: item.ActivePenalties,
			CurrentStreak:   item.CurrentStreak,
			AttackRating:    item.AttackRating,
			DefenseRating:   item.DefenseRating,
			WinRate:         item.WinRate,
		}
		if _, err := tx.NamedExecContext(ctx, query, model); err != nil {
			return fmt.Errorf("seed player rating %s: %w", item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
