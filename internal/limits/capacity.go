package limits

import "fmt"

// Join admits the member into the pool unless it is at capacity.
// Re-joining an existing member is idempotent: always allowed, never
// counted twice. There is no time dimension and no violation escalation
// here — the gate is purely the size of the occupant set.
func (e *Engine) Join(pool, member string, capacity int) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	ps := e.store.pools[pool]
	if ps == nil {
		ps = &poolState{members: make(map[string]struct{})}
		e.store.pools[pool] = ps
	}

	if _, ok := ps.members[member]; ok {
		return Decision{Allowed: true, Remaining: seatsLeft(capacity, len(ps.members))}
	}
	if len(ps.members) >= capacity {
		return Decision{
			Reason: fmt.Sprintf("Session is at maximum capacity (%d participants)", capacity),
		}
	}

	ps.members[member] = struct{}{}
	return Decision{Allowed: true, Remaining: seatsLeft(capacity, len(ps.members))}
}

// Leave releases the member's seat. Unknown pools and members are
// no-ops. An emptied pool record is deleted outright since pools are
// never time-swept.
func (e *Engine) Leave(pool, member string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ps := e.store.pools[pool]
	if ps == nil {
		return
	}
	delete(ps.members, member)
	if len(ps.members) == 0 {
		delete(e.store.pools, pool)
	}
}

// Occupancy reports the current number of seats taken in the pool.
func (e *Engine) Occupancy(pool string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	ps := e.store.pools[pool]
	if ps == nil {
		return 0
	}
	return len(ps.members)
}

func seatsLeft(capacity, occupied int) int {
	if occupied >= capacity {
		return 0
	}
	return capacity - occupied
}
