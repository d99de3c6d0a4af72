package limits

import "time"

// windowState tracks one rate-limited key: the current window, the
// violation count that survives window rollovers, and any active block.
// The window duration is recorded per key so the reaper can compute the
// staleness bound for keys checked with caller-supplied windows.
type windowState struct {
	windowStart  time.Time
	window       time.Duration
	count        int
	violations   int
	blockedUntil time.Time
	lastActivity time.Time
}

// poolState tracks the occupant set of one capacity-limited pool.
type poolState struct {
	members map[string]struct{}
}

// store owns all per-key mutable state. Records are reached only through
// the engine's methods while its mutex is held; nothing outside this
// package can see or mutate them.
type store struct {
	windows map[string]*windowState
	pools   map[string]*poolState
}

func newStore() *store {
	return &store{
		windows: make(map[string]*windowState),
		pools:   make(map[string]*poolState),
	}
}
