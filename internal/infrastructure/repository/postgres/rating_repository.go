package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
)

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) ListByPlayerIDs(ctx context.Context, playerIDs []string) (map[string]playerrating.Snapshot, error) {
	out := make(map[string]playerrating.Snapshot, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	const query = `
SELECT player_id, caps, active_bonuses, active_penalties, current_streak,
       attack_rating, defense_rating, win_rate
FROM player_ratings
WHERE player_id = ANY($1)`

	var rows []playerRatingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(playerIDs)); err != nil {
		return nil, fmt.Errorf("list player ratings: %w", err)
	}
	for _, row := range rows {
		out[row.PlayerID] = playerrating.Snapshot{
			PlayerID:        row.PlayerID,
			Caps:            row.Caps,
			ActiveBonuses:   row.ActiveBonuses,
			ActivePenalties: row.ActivePenalties,
			CurrentStreak:   row.CurrentStreak,
			AttackRating:    row.AttackRating,
			DefenseRating:   row.DefenseRating,
			WinRate:         row.WinRate,
		}
	}
	return out, nil
}
