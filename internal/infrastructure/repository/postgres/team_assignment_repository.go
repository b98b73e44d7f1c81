package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pickup-football/internal/domain/balance"
	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
)

type TeamAssignmentRepository struct {
	db *sqlx.DB
}

func NewTeamAssignmentRepository(db *sqlx.DB) *TeamAssignmentRepository {
	return &TeamAssignmentRepository{db: db}
}

func (r *TeamAssignmentRepository) GetCurrent(ctx context.Context, gameID string) (teamassignment.Assignment, bool, error) {
	const query = `
SELECT id, public_id, game_public_id, blue_team, orange_team,
       blue_attack, blue_defense, orange_attack, orange_defense,
       attack_diff, defense_diff, total_diff, win_rate_diff, method, created_at, deleted_at
FROM balanced_team_assignments
WHERE game_public_id = $1
  AND deleted_at IS NULL`

	var row teamAssignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID); err != nil {
		if isNotFound(err) {
			return teamassignment.Assignment{}, false, nil
		}
		return teamassignment.Assignment{}, false, fmt.Errorf("get team assignment: %w", err)
	}

	return teamassignment.Assignment{
		ID:         row.PublicID,
		GameID:     row.GamePublicID,
		BlueTeam:   []string(row.BlueTeam),
		OrangeTeam: []string(row.OrangeTeam),
		Stats: teamassignment.Stats{
			BlueAttack:    row.BlueAttack,
			BlueDefense:   row.BlueDefense,
			OrangeAttack:  row.OrangeAttack,
			OrangeDefense: row.OrangeDefense,
			AttackDiff:    row.AttackDiff,
			DefenseDiff:   row.DefenseDiff,
			TotalDiff:     row.TotalDiff,
			WinRateDiff:   row.WinRateDiff,
		},
		Method:    row.Method,
		CreatedAt: row.CreatedAt.UTC(),
	}, true, nil
}

// Replace soft-deletes the current assignment and inserts the new one in
// a single transaction, so a game never has two current assignments.
func (r *TeamAssignmentRepository) Replace(ctx context.Context, item teamassignment.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team assignment replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const retireQuery = `
UPDATE balanced_team_assignments
SET deleted_at = NOW()
WHERE game_public_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, retireQuery, item.GameID); err != nil {
		return fmt.Errorf("retire team assignment game=%s: %w", item.GameID, err)
	}

	const insertQuery = `
INSERT INTO balanced_team_assignments (
    public_id, game_public_id, blue_team, orange_team,
    blue_attack, blue_defense, orange_attack, orange_defense,
    attack_diff, defense_diff, total_diff, win_rate_diff, method, created_at
)
VALUES (
    :public_id, :game_public_id, :blue_team, :orange_team,
    :blue_attack, :blue_defense, :orange_attack, :orange_defense,
    :attack_diff, :defense_diff, :total_diff, :win_rate_diff, :method, :created_at
)`
	method := item.Method
	if method == "" {
		method = balance.MethodHeuristic
	}
	model := teamAssignmentTableModel{
		PublicID:      item.ID,
		GamePublicID:  item.GameID,
		BlueTeam:      pq.StringArray(item.BlueTeam),
		OrangeTeam:    pq.StringArray(item.OrangeTeam),
		BlueAttack:    item.Stats.BlueAttack,
		BlueDefense:   item.Stats.BlueDefense,
		OrangeAttack:  item.Stats.OrangeAttack,
		OrangeDefense: item.Stats.OrangeDefense,
		AttackDiff:    item.Stats.AttackDiff,
		DefenseDiff:   item.Stats.DefenseDiff,
		TotalDiff:     item.Stats.TotalDiff,
		WinRateDiff:   item.Stats.WinRateDiff,
		Method:        method,
		CreatedAt:     item.CreatedAt.UTC(),
	}
	if _, err := tx.NamedExecContext(ctx, insertQuery, model); err != nil {
		return fmt.Errorf("insert team assignment game=%s: %w", item.GameID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team assignment replace: %w", err)
	}
	return nil
}
