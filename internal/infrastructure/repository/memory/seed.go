package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/playerrating"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
)

const SeedGameID = "game-demo-001"

// SeedGame is an upcoming game whose registration window opens at now.
func SeedGame(now time.Time) game.Game {
	start := now.UTC().Truncate(time.Minute)
	return game.Game{
		ID:                      SeedGameID,
		Venue:                   "Lapangan Senayan B",
		Status:                  game.StatusUpcoming,
		RegistrationWindowStart: start,
		RegistrationWindowEnd:   start.Add(10 * time.Minute),
		TeamAnnouncementTime:    start.Add(15 * time.Minute),
		MaxPlayers:              18,
		RandomSlots:             2,
		CreatedAt:               start,
		UpdatedAt:               start,
	}
}

// SeedRatings returns count players with spread-out ratings.
func SeedRatings(count int) []playerrating.Snapshot {
	out := make([]playerrating.Snapshot, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, playerrating.Snapshot{
			PlayerID:        seedPlayerID(i),
			Caps:            (i * 7) % 40,
			ActiveBonuses:   i % 3,
			ActivePenalties: i % 5 / 4,
			CurrentStreak:   i % 4,
			AttackRating:    float64(40 + (i*13)%55),
			DefenseRating:   float64(35 + (i*17)%60),
			WinRate:         float64(30+(i*11)%50) / 100,
		})
	}
	return out
}

// SeedRegistrations registers the first count seeded players, one minute apart.
func SeedRegistrations(gameID string, start time.Time, count int) []registration.Registration {
	out := make([]registration.Registration, 0, count)
	for i := 0; i < count; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		out = append(out, registration.Registration{
			GameID:       gameID,
			PlayerID:     seedPlayerID(i),
			Status:       registration.StatusRegistered,
			RegisteredAt: at,
			UpdatedAt:    at,
		})
	}
	return out
}

func seedPlayerID(i int) string {
	return fmt.Sprintf("player-%03d", i+1)
}
