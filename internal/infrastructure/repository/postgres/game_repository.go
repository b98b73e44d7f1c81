package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
)

const gameColumns = `id, public_id, venue, status, registration_window_start, registration_window_end,
       team_announcement_time, max_players, random_slots, created_at, updated_at, deleted_at`

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query := `
SELECT ` + gameColumns + `
FROM games
WHERE public_id = $1
  AND deleted_at IS NULL`

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}
	item, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, err
	}
	return item, true, nil
}

func (r *GameRepository) ListActive(ctx context.Context) ([]game.Game, error) {
	query := `
SELECT ` + gameColumns + `
FROM games
WHERE deleted_at IS NULL
  AND status NOT IN ('teams_announced', 'completed')
ORDER BY registration_window_start, public_id`

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	const query = `
INSERT INTO games (
    public_id, venue, status, registration_window_start, registration_window_end,
    team_announcement_time, max_players, random_slots
)
VALUES (
    :public_id, :venue, :status, :registration_window_start, :registration_window_end,
    :team_announcement_time, :max_players, :random_slots
)`

	model := gameTableModel{
		PublicID:                item.ID,
		Venue:                   item.Venue,
		Status:                  string(item.Status),
		RegistrationWindowStart: item.RegistrationWindowStart.UTC(),
		RegistrationWindowEnd:   item.RegistrationWindowEnd.UTC(),
		TeamAnnouncementTime:    item.TeamAnnouncementTime.UTC(),
		MaxPlayers:              item.MaxPlayers,
		RandomSlots:             item.RandomSlots,
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create game=%s: already exists: %w", item.ID, err)
		}
		return fmt.Errorf("create game=%s: %w", item.ID, err)
	}
	return nil
}

// UpdateStatus is a compare-and-set on status; zero affected rows means
// someone else moved the game first.
func (r *GameRepository) UpdateStatus(ctx context.Context, id string, expected, next game.Status) error {
	if err := expected.CanAdvanceTo(next); err != nil {
		return err
	}

	const query = `
UPDATE games
SET status = $3,
    updated_at = NOW()
WHERE public_id = $1
  AND status = $2
  AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, string(expected), string(next))
	if err != nil {
		return fmt.Errorf("update game=%s status %s->%s: %w", id, expected, next, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows for game=%s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: game=%s expected=%s", game.ErrStatusConflict, id, expected)
	}
	return nil
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	status, err := game.ParseStatus(row.Status)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode game=%s: %w", row.PublicID, err)
	}
	return game.Game{
		ID:                      row.PublicID,
		Venue:                   row.Venue,
		Status:                  status,
		RegistrationWindowStart: row.RegistrationWindowStart.UTC(),
		RegistrationWindowEnd:   row.RegistrationWindowEnd.UTC(),
		TeamAnnouncementTime:    row.TeamAnnouncementTime.UTC(),
		MaxPlayers:              row.MaxPlayers,
		RandomSlots:             row.RandomSlots,
		CreatedAt:               row.CreatedAt.UTC(),
		UpdatedAt:               row.UpdatedAt.UTC(),
	}, nil
}
