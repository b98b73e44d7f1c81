package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
)

type TransitionRepository struct {
	db *sqlx.DB
}

func NewTransitionRepository(db *sqlx.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) GetState(ctx context.Context, gameID string, kind transition.Kind) (transition.State, error) {
	const query = `
SELECT game_public_id, kind, attempts, exhausted, last_error, updated_at
FROM game_transition_states
WHERE game_public_id = $1
  AND kind = $2`

	var row transitionStateTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID, string(kind)); err != nil {
		if isNotFound(err) {
			return transition.State{GameID: gameID, Kind: kind}, nil
		}
		return transition.State{}, fmt.Errorf("get transition state: %w", err)
	}

	return transition.State{
		GameID:    row.GamePublicID,
		Kind:      transition.Kind(row.Kind),
		Attempts:  row.Attempts,
		Exhausted: row.Exhausted,
		LastError: stringValue(row.LastError),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func (r *TransitionRepository) SaveState(ctx context.Context, state transition.State) error {
	const query = `
INSERT INTO game_transition_states (game_public_id, kind, attempts, exhausted, last_error, updated_at)
VALUES (:game_public_id, :kind, :attempts, :exhausted, :last_error, :updated_at)
ON CONFLICT (game_public_id, kind)
DO UPDATE SET
    attempts = EXCLUDED.attempts,
    exhausted = EXCLUDED.exhausted,
    last_error = EXCLUDED.last_error,
    updated_at = EXCLUDED.updated_at`

	updatedAt := state.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	model := transitionStateTableModel{
		GamePublicID: state.GameID,
		Kind:         string(state.Kind),
		Attempts:     state.Attempts,
		Exhausted:    state.Exhausted,
		LastError:    optionalString(state.LastError),
		UpdatedAt:    updatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("save transition state game=%s kind=%s: %w", state.GameID, state.Kind, err)
	}
	return nil
}

func (r *TransitionRepository) AppendEvent(ctx context.Context, event transition.Event) error {
	eventID := strings.TrimSpace(event.ID)
	if eventID == "" {
		return fmt.Errorf("transition event id is required")
	}
	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	const query = `
INSERT INTO game_transition_events (
    public_id, game_public_id, kind, outcome, attempt, message, payload, occurred_at, trace_id, span_id
)
VALUES (
    :public_id, :game_public_id, :kind, :outcome, :attempt, :message, CAST(:payload AS JSONB), :occurred_at, :trace_id, :span_id
)
ON CONFLICT (public_id) DO NOTHING`

	model := transitionEventTableModel{
		PublicID:     eventID,
		GamePublicID: event.GameID,
		Kind:         string(event.Kind),
		Outcome:      string(event.Outcome),
		Attempt:      event.Attempt,
		Message:      event.Message,
		Payload:      encodeJSONMap(event.Payload),
		OccurredAt:   occurredAt,
		TraceID:      optionalString(event.TraceID),
		SpanID:       optionalString(event.SpanID),
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("append transition event game=%s kind=%s outcome=%s: %w", event.GameID, event.Kind, event.Outcome, err)
	}
	return nil
}

func (r *TransitionRepository) ListEvents(ctx context.Context, gameID string) ([]transition.Event, error) {
	const query = `
SELECT id, public_id, game_public_id, kind, outcome, attempt, message, payload::text AS payload,
       occurred_at, trace_id, span_id
FROM game_transition_events
WHERE game_public_id = $1
ORDER BY occurred_at, id`

	var rows []transitionEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("list transition events: %w", err)
	}

	out := make([]transition.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, transition.Event{
			ID:         row.PublicID,
			GameID:     row.GamePublicID,
			Kind:       transition.Kind(row.Kind),
			Outcome:    transition.Outcome(row.Outcome),
			Attempt:    row.Attempt,
			Message:    row.Message,
			Payload:    decodeJSONMap(row.Payload),
			OccurredAt: row.OccurredAt.UTC(),
			TraceID:    stringValue(row.TraceID),
			SpanID:     stringValue(row.SpanID),
		})
	}
	return out, nil
}
