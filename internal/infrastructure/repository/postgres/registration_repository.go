package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
)

const registrationColumns = `id, game_public_id, player_id, status, randomly_selected, team, using_token, registered_at, updated_at`

type RegistrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) ListByGame(ctx context.Context, gameID string) ([]registration.Registration, error) {
	query := `
SELECT ` + registrationColumns + `
FROM game_registrations
WHERE game_public_id = $1
ORDER BY registered_at, player_id`

	var rows []registrationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	out := make([]registration.Registration, 0, len(rows))
	for _, row := range rows {
		item, err := registrationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RegistrationRepository) Get(ctx context.Context, gameID, playerID string) (registration.Registration, bool, error) {
	query := `
SELECT ` + registrationColumns + `
FROM game_registrations
WHERE game_public_id = $1
  AND player_id = $2`

	var row registrationTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID, playerID); err != nil {
		if isNotFound(err) {
			return registration.Registration{}, false, nil
		}
		return registration.Registration{}, false, fmt.Errorf("get registration: %w", err)
	}
	item, err := registrationFromRow(row)
	if err != nil {
		return registration.Registration{}, false, err
	}
	return item, true, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, item registration.Registration) error {
	if err := item.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO game_registrations (game_public_id, player_id, status, randomly_selected, team, using_token, registered_at)
VALUES (:game_public_id, :player_id, :status, :randomly_selected, :team, :using_token, :registered_at)`

	model := registrationTableModel{
		GamePublicID:     item.GameID,
		PlayerID:         item.PlayerID,
		Status:           string(item.Status),
		RandomlySelected: item.RandomlySelected,
		Team:             string(item.Team),
		UsingToken:       item.UsingToken,
		RegisteredAt:     item.RegisteredAt.UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: game=%s player=%s", registration.ErrAlreadyRegistered, item.GameID, item.PlayerID)
		}
		return fmt.Errorf("insert registration game=%s player=%s: %w", item.GameID, item.PlayerID, err)
	}
	return nil
}

// Rejoin reuses the dropped_out row so the (game, player) index stays unique.
func (r *RegistrationRepository) Rejoin(ctx context.Context, item registration.Registration) error {
	if err := item.Validate(); err != nil {
		return err
	}

	const query = `
UPDATE game_registrations
SET status = :status,
    randomly_selected = FALSE,
    team = '',
    using_token = :using_token,
    registered_at = :registered_at,
    updated_at = NOW()
WHERE game_public_id = :game_public_id
  AND player_id = :player_id
  AND status = 'dropped_out'`

	model := registrationTableModel{
		GamePublicID: item.GameID,
		PlayerID:     item.PlayerID,
		Status:       string(item.Status),
		UsingToken:   item.UsingToken,
		RegisteredAt: item.RegisteredAt.UTC(),
	}
	res, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("rejoin registration game=%s player=%s: %w", item.GameID, item.PlayerID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: game=%s player=%s", registration.ErrAlreadyRegistered, item.GameID, item.PlayerID)
	}
	return nil
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, gameID, playerID string, status registration.Status) error {
	const query = `
UPDATE game_registrations
SET status = $3,
    randomly_selected = CASE WHEN $3 = 'selected' THEN randomly_selected ELSE FALSE END,
    team = CASE WHEN $3 = 'selected' THEN team ELSE '' END,
    updated_at = NOW()
WHERE game_public_id = $1
  AND player_id = $2`

	res, err := r.db.ExecContext(ctx, query, gameID, playerID, string(status))
	if err != nil {
		return fmt.Errorf("update registration status game=%s player=%s: %w", gameID, playerID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("registration game=%s player=%s not found", gameID, playerID)
	}
	return nil
}

// ApplySelection writes every outcome in one transaction and clears any
// team left over from a previous run.
func (r *RegistrationRepository) ApplySelection(ctx context.Context, gameID string, outcomes []registration.Outcome) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for selection: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
UPDATE game_registrations
SET status = $3,
    randomly_selected = $4,
    team = '',
    updated_at = NOW()
WHERE game_public_id = $1
  AND player_id = $2`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare selection update: %w", err)
	}
	defer stmt.Close()

	for _, outcome := range outcomes {
		res, err := stmt.ExecContext(ctx, gameID, outcome.PlayerID, string(outcome.Status), outcome.RandomlySelected)
		if err != nil {
			return fmt.Errorf("apply selection player=%s: %w", outcome.PlayerID, err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("registration game=%s player=%s not found", gameID, outcome.PlayerID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit selection: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) AssignTeams(ctx context.Context, gameID string, assignments []registration.TeamAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team assignment: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
UPDATE game_registrations
SET team = $3,
    updated_at = NOW()
WHERE game_public_id = $1
  AND player_id = $2
  AND status = 'selected'`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare team update: %w", err)
	}
	defer stmt.Close()

	for _, assignment := range assignments {
		res, err := stmt.ExecContext(ctx, gameID, assignment.PlayerID, string(assignment.Team))
		if err != nil {
			return fmt.Errorf("assign team player=%s: %w", assignment.PlayerID, err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("%w: player=%s is not selected for game=%s", registration.ErrInvariant, assignment.PlayerID, gameID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team assignment: %w", err)
	}
	return nil
}

func registrationFromRow(row registrationTableModel) (registration.Registration, error) {
	status, err := registration.ParseStatus(row.Status)
	if err != nil {
		return registration.Registration{}, fmt.Errorf("decode registration game=%s player=%s: %w", row.GamePublicID, row.PlayerID, err)
	}
	team, err := registration.ParseTeam(row.Team)
	if err != nil {
		return registration.Registration{}, fmt.Errorf("decode registration game=%s player=%s: %w", row.GamePublicID, row.PlayerID, err)
	}
	return registration.Registration{
		GameID:           row.GamePublicID,
		PlayerID:         row.PlayerID,
		Status:           status,
		RandomlySelected: row.RandomlySelected,
		Team:             team,
		UsingToken:       row.UsingToken,
		RegisteredAt:     row.RegisteredAt.UTC(),
		UpdatedAt:        row.UpdatedAt.UTC(),
	}, nil
}
