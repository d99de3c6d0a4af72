// Package limits implements the in-memory abuse-prevention engine: a
// per-key sliding-window rate limiter with violation escalation into
// timed blocks, a session capacity gate, and a background reaper that
// bounds state growth.
//
// All state is process-local. A deployment running multiple server
// instances enforces limits independently per instance; global
// consistency would require swapping the backing store for a shared one
// while preserving the Check/Join contracts.
package limits

import (
	"sync"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

// Engine owns all rate and capacity state. Every operation is a plain
// in-memory mutation serialized by one mutex: a single call is atomic,
// but no atomicity is promised across calls — each Decision is valid
// only for the instant it was produced.
type Engine struct {
	mu    sync.Mutex
	store *store
	clock Clock
	log   *logger.Logger

	violationThreshold int
	blockDuration      time.Duration
	staleMultiplier    int
	sweepInterval      time.Duration

	done    chan struct{}
	wg      sync.WaitGroup
	stopped sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, letting tests advance virtual time.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSweepInterval overrides the reaper cadence.
func WithSweepInterval(d time.Duration) Option {
	return func(e *Engine) { e.sweepInterval = d }
}

// NewEngine creates an engine with the reference policy and starts its
// reaper. Callers must Destroy the engine when done with it.
func NewEngine(log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:              newStore(),
		clock:              systemClock{},
		log:                log,
		violationThreshold: violationThreshold,
		blockDuration:      blockDuration,
		staleMultiplier:    staleWindowMultiplier,
		sweepInterval:      sweepInterval,
		done:               make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.wg.Add(1)
	go e.reapLoop()

	return e
}

// Reset unconditionally clears all rate state for one key — window,
// violation count and block expiry go together, never partially. A
// no-op for unknown keys.
func (e *Engine) Reset(key string) {
	e.mu.Lock()
	delete(e.store.windows, key)
	e.mu.Unlock()
}

// ClearPool deletes one capacity pool and every membership in it. A
// no-op for unknown pools.
func (e *Engine) ClearPool(pool string) {
	e.mu.Lock()
	delete(e.store.pools, pool)
	e.mu.Unlock()
}

// Destroy stops the reaper and releases all held state. Required at
// process shutdown and in test teardown so no background timer outlives
// the engine. Safe to call more than once.
func (e *Engine) Destroy() {
	e.stopped.Do(func() {
		close(e.done)
	})
	e.wg.Wait()

	e.mu.Lock()
	e.store = newStore()
	e.mu.Unlock()
}
