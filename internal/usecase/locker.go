package usecase

import (
	"context"
	"sync"
	"time"
)

// Locker serialises transitions for one game across processes.
type Locker interface {
	// Acquire returns a release func, or ErrTransitionBusy when someone
	// else holds the lock.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// NewNoopLocker is used for single-replica deployments.
func NewNoopLocker() Locker {
	return noopLocker{}
}

// inflight is the process-local guard against overlapping ticks.
type inflight struct {
	mu    sync.Mutex
	games map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{games: make(map[string]struct{})}
}

func (f *inflight) tryStart(gameID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.games[gameID]; busy {
		return false
	}
	f.games[gameID] = struct{}{}
	return true
}

func (f *inflight) done(gameID string) {
	f.mu.Lock()
	delete(f.games, gameID)
	f.mu.Unlock()
}

// attemptLog mirrors persisted retry counters in process memory, so the
// retry bound still holds while the transition store rejects writes.
type attemptLog struct {
	mu     sync.Mutex
	counts map[string]int
}

func newAttemptLog() *attemptLog {
	return &attemptLog{counts: make(map[string]int)}
}

func (a *attemptLog) get(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[key]
}

func (a *attemptLog) set(key string, attempts int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if attempts <= 0 {
		delete(a.counts, key)
		return
	}
	a.counts[key] = attempts
}
