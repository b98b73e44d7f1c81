package balance

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func ratedPlayers(n int) []Player {
	out := make([]Player, 0, n)
	for i := range n {
		out = append(out, Player{
			ID:            fmt.Sprintf("player-%02d", i+1),
			AttackRating:  float64((i*7)%10) + 1,
			DefenseRating: float64((i*3)%10) + 1,
			WinRate:       float64(40+(i*11)%30) / 100,
		})
	}
	return out
}

func assertConservation(t *testing.T, input []Player, got Result) {
	t.Helper()

	seen := make(map[string]int, len(input))
	for _, p := range got.Blue {
		seen[p.ID]++
	}
	for _, p := range got.Orange {
		seen[p.ID]++
	}
	require.Len(t, seen, len(input))
	for _, p := range input {
		require.Equal(t, 1, seen[p.ID], "player %s must appear exactly once", p.ID)
	}
	sizeDiff := len(got.Blue) - len(got.Orange)
	require.LessOrEqual(t, sizeDiff, 1)
	require.GreaterOrEqual(t, sizeDiff, -1)
}

func partitionDiff(blue, orange []Player) float64 {
	var ba, bd, oa, od float64
	for _, p := range blue {
		ba += p.AttackRating
		bd += p.DefenseRating
	}
	for _, p := range orange {
		oa += p.AttackRating
		od += p.DefenseRating
	}
	return math.Abs(ba-oa) + math.Abs(bd-od)
}

func TestBalancer_InsufficientPlayers(t *testing.T) {
	balancer := NewBalancer(DefaultConfig())

	for _, pool := range [][]Player{nil, ratedPlayers(1)} {
		_, err := balancer.Balance(pool)
		if !errors.Is(err, ErrInsufficientPlayers) {
			t.Fatalf("expected ErrInsufficientPlayers for %d players, got %v", len(pool), err)
		}
	}
}

func TestBalancer_RejectsDuplicates(t *testing.T) {
	pool := ratedPlayers(4)
	pool[3].ID = pool[0].ID

	_, err := NewBalancer(DefaultConfig()).Balance(pool)
	if !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestBalancer_ElevenPlayers(t *testing.T) {
	pool := ratedPlayers(11)

	got, err := NewBalancer(DefaultConfig()).Balance(pool)
	require.NoError(t, err)
	require.Equal(t, MethodExhaustive, got.Method)
	assertConservation(t, pool, got)

	sizes := []int{len(got.Blue), len(got.Orange)}
	slices.Sort(sizes)
	require.Equal(t, []int{5, 6}, sizes)

	naive := partitionDiff(pool[:6], pool[6:])
	require.LessOrEqual(t, got.Stats.TotalDiff, naive)
	require.InDelta(t, partitionDiff(got.Blue, got.Orange), got.Stats.TotalDiff, 1e-9)
	require.InDelta(t, got.Stats.AttackDiff+got.Stats.DefenseDiff, got.Stats.TotalDiff, 1e-9)
}

func TestBalancer_FindsPerfectSplit(t *testing.T) {
	pool := []Player{
		{ID: "a", AttackRating: 9, DefenseRating: 1},
		{ID: "b", AttackRating: 1, DefenseRating: 9},
		{ID: "c", AttackRating: 9, DefenseRating: 1},
		{ID: "d", AttackRating: 1, DefenseRating: 9},
	}

	got, err := NewBalancer(DefaultConfig()).Balance(pool)
	require.NoError(t, err)
	require.InDelta(t, 0, got.Stats.TotalDiff, 1e-9)
	require.Len(t, got.Blue, 2)
	require.Equal(t, "a", got.Blue[0].ID, "first player by id is pinned to blue")
}

func TestBalancer_DeterministicAcrossInputOrder(t *testing.T) {
	pool := ratedPlayers(10)
	reversed := slices.Clone(pool)
	slices.Reverse(reversed)

	balancer := NewBalancer(DefaultConfig())
	first, err := balancer.Balance(pool)
	require.NoError(t, err)
	second, err := balancer.Balance(reversed)
	require.NoError(t, err)

	require.Equal(t, first.BlueIDs(), second.BlueIDs())
	require.Equal(t, first.OrangeIDs(), second.OrangeIDs())
}

func TestBalancer_HeuristicAboveLimit(t *testing.T) {
	pool := ratedPlayers(23)

	balancer := NewBalancer(Config{ExhaustiveLimit: 12, MaxSwapRounds: 32})
	got, err := balancer.Balance(pool)
	require.NoError(t, err)
	require.Equal(t, MethodHeuristic, got.Method)
	assertConservation(t, pool, got)

	naive := partitionDiff(pool[:12], pool[12:])
	require.LessOrEqual(t, got.Stats.TotalDiff, naive)

	again, err := balancer.Balance(pool)
	require.NoError(t, err)
	require.Equal(t, got.BlueIDs(), again.BlueIDs())
}

func TestBalancer_ConservationForManySizes(t *testing.T) {
	balancer := NewBalancer(Config{ExhaustiveLimit: 10})
	for n := 2; n <= 16; n++ {
		pool := ratedPlayers(n)
		got, err := balancer.Balance(pool)
		require.NoError(t, err, "n=%d", n)
		assertConservation(t, pool, got)
	}
}

func TestNextCombination(t *testing.T) {
	idx := []int{1, 2}
	var seen [][]int
	for {
		seen = append(seen, slices.Clone(idx))
		if !nextCombination(idx, 5) {
			break
		}
	}
	require.Equal(t, [][]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}, seen)
}
