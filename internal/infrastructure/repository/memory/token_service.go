package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/pickup-football/internal/domain/token"
)

// TokenService keeps a per-player token balance and the games each token
// is currently reserved for.
type TokenService struct {
	mu       sync.Mutex
	balance  map[string]int
	reserved map[string]struct{}
}

func NewTokenService(balance map[string]int) *TokenService {
	copied := make(map[string]int, len(balance))
	for playerID, count := range balance {
		copied[playerID] = count
	}
	return &TokenService{balance: copied, reserved: make(map[string]struct{})}
}

func (s *TokenService) Reserve(_ context.Context, playerID, gameID string) (token.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey(playerID, gameID)
	if _, ok := s.reserved[key]; ok {
		return token.AlreadyHeld, nil
	}
	if s.balance[playerID] <= 0 {
		return token.Unavailable, nil
	}
	s.balance[playerID]--
	s.reserved[key] = struct{}{}
	return token.Debited, nil
}

func (s *TokenService) Return(_ context.Context, playerID, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey(playerID, gameID)
	if _, ok := s.reserved[key]; !ok {
		return fmt.Errorf("%w: player=%s game=%s", token.ErrNotHeld, playerID, gameID)
	}
	delete(s.reserved, key)
	s.balance[playerID]++
	return nil
}

func (s *TokenService) Balance(playerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balance[playerID]
}

func tokenKey(playerID, gameID string) string {
	return playerID + "::" + gameID
}
