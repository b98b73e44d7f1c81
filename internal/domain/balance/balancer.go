package balance

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/pickup-football/internal/domain/teamassignment"
)

var (
	ErrInsufficientPlayers = errors.New("insufficient players to balance")
	ErrDuplicatePlayer     = errors.New("duplicate player in balance input")
)

const (
	MethodExhaustive = "exhaustive"
	MethodHeuristic  = "heuristic"

	DefaultExhaustiveLimit = 18
	DefaultMaxSwapRounds   = 64

	epsilon = 1e-9
)

// Player is one rated participant.
type Player struct {
	ID            string
	AttackRating  float64
	DefenseRating float64
	WinRate       float64
}

type Result struct {
	Blue   []Player
	Orange []Player
	Stats  teamassignment.Stats
	Method string
}

func (r Result) BlueIDs() []string {
	return playerIDs(r.Blue)
}

func (r Result) OrangeIDs() []string {
	return playerIDs(r.Orange)
}

type Config struct {
	// ExhaustiveLimit is the largest pool searched exhaustively.
	ExhaustiveLimit int
	MaxSwapRounds   int
}

func DefaultConfig() Config {
	return Config{
		ExhaustiveLimit: DefaultExhaustiveLimit,
		MaxSwapRounds:   DefaultMaxSwapRounds,
	}
}

// Balancer splits a pool into blue and orange teams of minimal skill
// differential. Output depends only on the ratings, never on input order.
type Balancer struct {
	cfg Config
}

func NewBalancer(cfg Config) *Balancer {
	defaults := DefaultConfig()
	if cfg.ExhaustiveLimit < 2 {
		cfg.ExhaustiveLimit = defaults.ExhaustiveLimit
	}
	if cfg.MaxSwapRounds < 1 {
		cfg.MaxSwapRounds = defaults.MaxSwapRounds
	}
	return &Balancer{cfg: cfg}
}

func (b *Balancer) Balance(players []Player) (Result, error) {
	if len(players) < 2 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInsufficientPlayers, len(players))
	}

	pool := append([]Player(nil), players...)
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	for i := range pool {
		if strings.TrimSpace(pool[i].ID) == "" {
			return Result{}, fmt.Errorf("player id is required")
		}
		if i > 0 && pool[i].ID == pool[i-1].ID {
			return Result{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, pool[i].ID)
		}
	}

	var (
		blue   []int
		method string
	)
	if len(pool) <= b.cfg.ExhaustiveLimit {
		blue = searchExhaustive(pool)
		method = MethodExhaustive
	} else {
		blue = searchHeuristic(pool, b.cfg.MaxSwapRounds)
		method = MethodHeuristic
	}

	return buildResult(pool, blue, method), nil
}

type score struct {
	total   float64
	winRate float64
}

func (s score) better(other score) bool {
	if math.Abs(s.total-other.total) > epsilon {
		return s.total < other.total
	}
	return s.winRate < other.winRate-epsilon
}

type totals struct {
	attack, defense, winRate float64
}

func sumAll(pool []Player) totals {
	var out totals
	for _, p := range pool {
		out.attack += p.AttackRating
		out.defense += p.DefenseRating
		out.winRate += p.WinRate
	}
	return out
}

func evaluate(all, blue totals, blueSize, n int) score {
	orangeSize := n - blueSize
	attackDiff := math.Abs(blue.attack - (all.attack - blue.attack))
	defenseDiff := math.Abs(blue.defense - (all.defense - blue.defense))
	var winRateDiff float64
	if blueSize > 0 && orangeSize > 0 {
		winRateDiff = math.Abs(blue.winRate/float64(blueSize) - (all.winRate-blue.winRate)/float64(orangeSize))
	}
	return score{total: attackDiff + defenseDiff, winRate: winRateDiff}
}

// searchExhaustive enumerates every partition once by pinning pool[0] to
// blue and trying both team sizes for odd pools.
func searchExhaustive(pool []Player) []int {
	n := len(pool)
	all := sumAll(pool)

	sizes := []int{n / 2}
	if n%2 == 1 {
		sizes = []int{n / 2, n/2 + 1}
	}

	var (
		best      []int
		bestScore score
	)
	for _, size := range sizes {
		// combination over indexes 1..n-1 of length size-1
		k := size - 1
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i + 1
		}
		for {
			members := append([]int{0}, idx...)
			var sum totals
			for _, m := range members {
				sum.attack += pool[m].AttackRating
				sum.defense += pool[m].DefenseRating
				sum.winRate += pool[m].WinRate
			}
			current := evaluate(all, sum, size, n)
			if best == nil || current.better(bestScore) {
				best = members
				bestScore = current
			}
			if !nextCombination(idx, n) {
				break
			}
		}
	}
	return best
}

// nextCombination advances idx to the next k-combination of 1..n-1 in
// lexicographic order.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	for i := k - 1; i >= 0; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}

// searchHeuristic seeds teams with a snake draft over combined rating and
// then applies best-improvement swaps until none helps.
func searchHeuristic(pool []Player, maxRounds int) []int {
	n := len(pool)
	all := sumAll(pool)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := pool[order[i]], pool[order[j]]
		return a.AttackRating+a.DefenseRating > b.AttackRating+b.DefenseRating
	})

	inBlue := make([]bool, n)
	for pick, idx := range order {
		// blue, orange, orange, blue, ...
		if pick%4 == 0 || pick%4 == 3 {
			inBlue[idx] = true
		}
	}

	blueTotals := func() (totals, int) {
		var sum totals
		size := 0
		for i, ok := range inBlue {
			if !ok {
				continue
			}
			size++
			sum.attack += pool[i].AttackRating
			sum.defense += pool[i].DefenseRating
			sum.winRate += pool[i].WinRate
		}
		return sum, size
	}

	for range maxRounds {
		sum, size := blueTotals()
		current := evaluate(all, sum, size, n)
		bestI, bestJ := -1, -1
		bestScore := current
		for i := 0; i < n; i++ {
			if !inBlue[i] {
				continue
			}
			for j := 0; j < n; j++ {
				if inBlue[j] {
					continue
				}
				swapped := totals{
					attack:  sum.attack - pool[i].AttackRating + pool[j].AttackRating,
					defense: sum.defense - pool[i].DefenseRating + pool[j].DefenseRating,
					winRate: sum.winRate - pool[i].WinRate + pool[j].WinRate,
				}
				candidate := evaluate(all, swapped, size, n)
				if candidate.better(bestScore) {
					bestScore = candidate
					bestI, bestJ = i, j
				}
			}
		}
		if bestI < 0 {
			break
		}
		inBlue[bestI], inBlue[bestJ] = false, true
	}

	blue := make([]int, 0, n/2+1)
	for i, ok := range inBlue {
		if ok {
			blue = append(blue, i)
		}
	}
	return blue
}

func buildResult(pool []Player, blueIdx []int, method string) Result {
	isBlue := make(map[int]bool, len(blueIdx))
	for _, i := range blueIdx {
		isBlue[i] = true
	}

	var out Result
	out.Method = method
	var blueWin, orangeWin float64
	for i, p := range pool {
		if isBlue[i] {
			out.Blue = append(out.Blue, p)
			out.Stats.BlueAttack += p.AttackRating
			out.Stats.BlueDefense += p.DefenseRating
			blueWin += p.WinRate
			continue
		}
		out.Orange = append(out.Orange, p)
		out.Stats.OrangeAttack += p.AttackRating
		out.Stats.OrangeDefense += p.DefenseRating
		orangeWin += p.WinRate
	}

	out.Stats.AttackDiff = math.Abs(out.Stats.BlueAttack - out.Stats.OrangeAttack)
	out.Stats.DefenseDiff = math.Abs(out.Stats.BlueDefense - out.Stats.OrangeDefense)
	out.Stats.TotalDiff = out.Stats.AttackDiff + out.Stats.DefenseDiff
	if len(out.Blue) > 0 && len(out.Orange) > 0 {
		out.Stats.WinRateDiff = math.Abs(blueWin/float64(len(out.Blue)) - orangeWin/float64(len(out.Orange)))
	}
	return out
}

func playerIDs(players []Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}
