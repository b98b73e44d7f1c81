package selection

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
)

var (
	ErrInvalidSlots    = errors.New("invalid selection slots")
	ErrDuplicatePlayer = errors.New("duplicate candidate")
)

// Candidate is one registered player entering selection.
type Candidate struct {
	PlayerID     string
	RegisteredAt time.Time
	UsingToken   bool
	Score        int
}

// Plan is the full outcome of one selection run.
type Plan struct {
	Outcomes []registration.Outcome
	Token    []string
	Merit    []string
	Random   []string
	Reserve  []string
}

// SelectedCount is the number of players given a slot.
func (p Plan) SelectedCount() int {
	return len(p.Token) + len(p.Merit) + len(p.Random)
}

// Engine turns a pool of candidates into selected and reserve outcomes.
type Engine struct {
	drawer *Drawer
}

func NewEngine(drawer *Drawer) *Engine {
	if drawer == nil {
		drawer = NewDrawer(nil)
	}
	return &Engine{drawer: drawer}
}

// Plan runs the selection algorithm:
//
//  1. every candidate starts as reserve, not randomly selected;
//  2. token holders are selected first, earliest registration wins when
//     they outnumber max_players, and they consume merit slots before
//     random slots;
//  3. the rest are ranked by score desc, registered_at asc, player id asc;
//  4. the top merit slots are selected on merit;
//  5. random slots are drawn from whoever is left;
//  6. everybody else stays reserve.
func (e *Engine) Plan(g game.Game, candidates []Candidate) (Plan, error) {
	if g.MaxPlayers < 0 || g.RandomSlots < 0 || g.RandomSlots > g.MaxPlayers {
		return Plan{}, fmt.Errorf("%w: max_players=%d random_slots=%d", ErrInvalidSlots, g.MaxPlayers, g.RandomSlots)
	}

	pool := append([]Candidate(nil), candidates...)
	sort.SliceStable(pool, func(i, j int) bool {
		return fetchOrderLess(pool[i], pool[j])
	})

	seen := make(map[string]struct{}, len(pool))
	for _, item := range pool {
		if _, ok := seen[item.PlayerID]; ok {
			return Plan{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, item.PlayerID)
		}
		seen[item.PlayerID] = struct{}{}
	}

	outcome := make(map[string]registration.Outcome, len(pool))
	for _, item := range pool {
		outcome[item.PlayerID] = registration.Outcome{
			PlayerID: item.PlayerID,
			Status:   registration.StatusReserve,
		}
	}

	var plan Plan
	ranked := make([]Candidate, 0, len(pool))
	for _, item := range pool {
		if item.UsingToken && len(plan.Token) < g.MaxPlayers {
			plan.Token = append(plan.Token, item.PlayerID)
			continue
		}
		ranked = append(ranked, item)
	}

	capacity := g.MaxPlayers - len(plan.Token)
	randomSlots := min(g.RandomSlots, capacity)
	meritSlots := capacity - randomSlots

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return fetchOrderLess(ranked[i], ranked[j])
	})

	meritCount := min(meritSlots, len(ranked))
	for _, item := range ranked[:meritCount] {
		plan.Merit = append(plan.Merit, item.PlayerID)
	}

	remaining := make([]string, 0, len(ranked)-meritCount)
	for _, item := range ranked[meritCount:] {
		remaining = append(remaining, item.PlayerID)
	}
	plan.Random = e.drawer.Draw(remaining, randomSlots)

	for _, id := range plan.Token {
		outcome[id] = registration.Outcome{PlayerID: id, Status: registration.StatusSelected}
	}
	for _, id := range plan.Merit {
		outcome[id] = registration.Outcome{PlayerID: id, Status: registration.StatusSelected}
	}
	for _, id := range plan.Random {
		outcome[id] = registration.Outcome{PlayerID: id, Status: registration.StatusSelected, RandomlySelected: true}
	}

	plan.Outcomes = make([]registration.Outcome, 0, len(pool))
	for _, item := range pool {
		row := outcome[item.PlayerID]
		if row.Status == registration.StatusReserve {
			plan.Reserve = append(plan.Reserve, item.PlayerID)
		}
		plan.Outcomes = append(plan.Outcomes, row)
	}

	return plan, nil
}

func fetchOrderLess(a, b Candidate) bool {
	if !a.RegisteredAt.Equal(b.RegisteredAt) {
		return a.RegisteredAt.Before(b.RegisteredAt)
	}
	return a.PlayerID < b.PlayerID
}
