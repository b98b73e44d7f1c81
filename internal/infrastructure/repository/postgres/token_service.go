package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickup-football/internal/domain/token"
)

// TokenService is the priority token ledger: a balance per player plus
// one reservation row per (player, game).
type TokenService struct {
	db *sqlx.DB
}

func NewTokenService(db *sqlx.DB) *TokenService {
	return &TokenService{db: db}
}

func (s *TokenService) Reserve(ctx context.Context, playerID, gameID string) (token.Reservation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return token.Unavailable, fmt.Errorf("begin tx for token reserve: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const reserveQuery = `
INSERT INTO priority_token_reservations (player_id, game_public_id)
VALUES ($1, $2)
ON CONFLICT (player_id, game_public_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, reserveQuery, playerID, gameID)
	if err != nil {
		return token.Unavailable, fmt.Errorf("insert token reservation player=%s: %w", playerID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return token.AlreadyHeld, nil
	}

	const debitQuery = `
UPDATE priority_tokens
SET balance = balance - 1,
    updated_at = NOW()
WHERE player_id = $1
  AND balance > 0`
	res, err = tx.ExecContext(ctx, debitQuery, playerID)
	if err != nil {
		return token.Unavailable, fmt.Errorf("debit token player=%s: %w", playerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return token.Unavailable, fmt.Errorf("read debit result player=%s: %w", playerID, err)
	}
	if affected == 0 {
		return token.Unavailable, nil
	}

	if err := tx.Commit(); err != nil {
		return token.Unavailable, fmt.Errorf("commit token reserve: %w", err)
	}
	return token.Debited, nil
}

func (s *TokenService) Return(ctx context.Context, playerID, gameID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for token return: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const releaseQuery = `
DELETE FROM priority_token_reservations
WHERE player_id = $1
  AND game_public_id = $2`
	res, err := tx.ExecContext(ctx, releaseQuery, playerID, gameID)
	if err != nil {
		return fmt.Errorf("delete token reservation player=%s: %w", playerID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: player=%s game=%s", token.ErrNotHeld, playerID, gameID)
	}

	const creditQuery = `
INSERT INTO priority_tokens (player_id, balance)
VALUES ($1, 1)
ON CONFLICT (player_id)
DO UPDATE SET
    balance = priority_tokens.balance + 1,
    updated_at = NOW()`
	if _, err := tx.ExecContext(ctx, creditQuery, playerID); err != nil {
		return fmt.Errorf("credit token player=%s: %w", playerID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit token return: %w", err)
	}
	return nil
}
