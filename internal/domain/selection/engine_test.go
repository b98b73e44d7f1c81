package selection

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/stretchr/testify/require"
)

var registeredBase = time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)

func candidates(n int) []Candidate {
	out := make([]Candidate, 0, n)
	for i := range n {
		out = append(out, Candidate{
			PlayerID:     fmt.Sprintf("p%02d", i+1),
			RegisteredAt: registeredBase.Add(time.Duration(i) * time.Minute),
			Score:        100 - i,
		})
	}
	return out
}

func outcomeIndex(plan Plan) map[string]registration.Outcome {
	out := make(map[string]registration.Outcome, len(plan.Outcomes))
	for _, row := range plan.Outcomes {
		out[row.PlayerID] = row
	}
	return out
}

func TestEngine_Plan_TwentyCandidates(t *testing.T) {
	g := game.Game{MaxPlayers: 18, RandomSlots: 2}
	pool := candidates(20)

	plan, err := NewEngine(NewSeededDrawer(11)).Plan(g, pool)
	require.NoError(t, err)

	require.Len(t, plan.Merit, 16)
	require.Len(t, plan.Random, 2)
	require.Len(t, plan.Reserve, 2)
	require.Equal(t, 18, plan.SelectedCount())

	for i, id := range plan.Merit {
		require.Equal(t, pool[i].PlayerID, id, "merit slots follow score order")
	}
	bottom := map[string]bool{"p17": true, "p18": true, "p19": true, "p20": true}
	for _, id := range plan.Random {
		require.True(t, bottom[id], "random slot %s must come from the non-merit pool", id)
	}

	index := outcomeIndex(plan)
	for _, id := range plan.Random {
		require.True(t, index[id].RandomlySelected)
		require.Equal(t, registration.StatusSelected, index[id].Status)
	}
	for _, id := range plan.Reserve {
		require.Equal(t, registration.StatusReserve, index[id].Status)
		require.False(t, index[id].RandomlySelected)
	}
}

func TestEngine_Plan_FewerCandidatesThanSlots(t *testing.T) {
	g := game.Game{MaxPlayers: 18, RandomSlots: 2}

	plan, err := NewEngine(NewSeededDrawer(3)).Plan(g, candidates(15))
	require.NoError(t, err)

	require.Equal(t, 15, plan.SelectedCount())
	require.Empty(t, plan.Reserve)
	// merit slots absorb the whole pool before anything is drawn
	require.Len(t, plan.Merit, 15)
	require.Empty(t, plan.Random)
	for _, outcome := range plan.Outcomes {
		require.False(t, outcome.RandomlySelected, outcome.PlayerID)
	}
}

func TestEngine_Plan_MeritCorrectness(t *testing.T) {
	g := game.Game{MaxPlayers: 10, RandomSlots: 3}
	pool := []Candidate{}
	scores := []int{40, 12, 55, 12, 8, 70, 33, 21, 21, 5, 90, 1, 47, 12}
	for i, score := range scores {
		pool = append(pool, Candidate{
			PlayerID:     fmt.Sprintf("p%02d", i),
			RegisteredAt: registeredBase.Add(time.Duration(len(scores)-i) * time.Second),
			Score:        score,
		})
	}
	scoreOf := make(map[string]int, len(pool))
	for _, item := range pool {
		scoreOf[item.PlayerID] = item.Score
	}

	for seed := uint64(0); seed < 25; seed++ {
		plan, err := NewEngine(NewSeededDrawer(seed)).Plan(g, pool)
		require.NoError(t, err)
		require.Len(t, plan.Merit, 7)
		require.Len(t, plan.Random, 3)

		for _, merit := range plan.Merit {
			for _, reserve := range plan.Reserve {
				require.GreaterOrEqual(t, scoreOf[merit], scoreOf[reserve])
			}
		}
	}
}

func TestEngine_Plan_TieBreakByRegistrationTime(t *testing.T) {
	g := game.Game{MaxPlayers: 2, RandomSlots: 0}
	pool := []Candidate{
		{PlayerID: "late", RegisteredAt: registeredBase.Add(2 * time.Minute), Score: 10},
		{PlayerID: "early", RegisteredAt: registeredBase, Score: 10},
		{PlayerID: "middle", RegisteredAt: registeredBase.Add(time.Minute), Score: 10},
	}

	plan, err := NewEngine(NewSeededDrawer(1)).Plan(g, pool)
	require.NoError(t, err)
	require.Equal(t, []string{"early", "middle"}, plan.Merit)
	require.Equal(t, []string{"late"}, plan.Reserve)
}

func TestEngine_Plan_TokenHoldersSelectedFirst(t *testing.T) {
	g := game.Game{MaxPlayers: 4, RandomSlots: 1}
	pool := candidates(8)
	pool[7].UsingToken = true
	pool[6].UsingToken = true

	plan, err := NewEngine(NewSeededDrawer(5)).Plan(g, pool)
	require.NoError(t, err)

	require.Equal(t, []string{"p07", "p08"}, plan.Token)
	require.Equal(t, []string{"p01"}, plan.Merit)
	require.Len(t, plan.Random, 1)
	require.Equal(t, 4, plan.SelectedCount())

	index := outcomeIndex(plan)
	require.False(t, index["p07"].RandomlySelected)
	require.Equal(t, registration.StatusSelected, index["p08"].Status)
}

func TestEngine_Plan_TokensExhaustMeritThenRandom(t *testing.T) {
	g := game.Game{MaxPlayers: 3, RandomSlots: 2}
	pool := candidates(6)
	pool[3].UsingToken = true
	pool[4].UsingToken = true

	plan, err := NewEngine(NewSeededDrawer(5)).Plan(g, pool)
	require.NoError(t, err)
	require.Len(t, plan.Token, 2)
	require.Empty(t, plan.Merit)
	require.Len(t, plan.Random, 1)
}

func TestEngine_Plan_IsIdempotentForSameSeed(t *testing.T) {
	g := game.Game{MaxPlayers: 6, RandomSlots: 2}
	pool := candidates(10)

	first, err := NewEngine(NewSeededDrawer(99)).Plan(g, pool)
	require.NoError(t, err)
	second, err := NewEngine(NewSeededDrawer(99)).Plan(g, pool)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEngine_Plan_RejectsInvalidInput(t *testing.T) {
	engine := NewEngine(NewSeededDrawer(1))

	_, err := engine.Plan(game.Game{MaxPlayers: 2, RandomSlots: 3}, candidates(3))
	if !errors.Is(err, ErrInvalidSlots) {
		t.Fatalf("expected ErrInvalidSlots, got %v", err)
	}

	dup := candidates(2)
	dup[1].PlayerID = dup[0].PlayerID
	_, err = engine.Plan(game.Game{MaxPlayers: 2}, dup)
	if !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
}
