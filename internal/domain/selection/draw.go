package selection

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Drawer produces uniform random permutations from an injected source.
type Drawer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewDrawer(rng *rand.Rand) *Drawer {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1|1))
	}
	return &Drawer{rng: rng}
}

// NewSeededDrawer returns a drawer whose output is reproducible.
func NewSeededDrawer(seed uint64) *Drawer {
	return NewDrawer(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Shuffle returns a Fisher-Yates permutation of items. The input is not modified.
func (d *Drawer) Shuffle(items []string) []string {
	out := append([]string(nil), items...)

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Draw picks min(n, len(items)) distinct items uniformly at random.
func (d *Drawer) Draw(items []string, n int) []string {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	shuffled := d.Shuffle(items)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
