package limits

import (
	"fmt"
	"time"
)

// ReasonBlocked is the denial reason while a violation block is active.
const ReasonBlocked = "Temporary block in effect"

// Check accounts one action against the key's rate window and returns
// the decision. Branch order matters: an active block wins before any
// rollover (a blocked call consumes no quota and does not reset the
// violation clock), the rollover happens before the increment, and only
// an increment that lands over the limit records a violation.
func (e *Engine) Check(key string, limit int, window time.Duration) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	ws := e.store.windows[key]
	if ws == nil {
		ws = &windowState{windowStart: now, window: window}
		e.store.windows[key] = ws
	}
	ws.lastActivity = now
	ws.window = window

	if ws.blockedUntil.After(now) {
		retry := ws.blockedUntil.Sub(now)
		return Decision{ResetIn: retry, RetryAfter: retry, Reason: ReasonBlocked}
	}
	if !ws.blockedUntil.IsZero() {
		// Block just expired: the first check afterwards starts a clean
		// window (the violation counter was cleared at escalation).
		ws.blockedUntil = time.Time{}
		ws.windowStart = now
		ws.count = 0
	}
	if now.Sub(ws.windowStart) >= window {
		ws.windowStart = now
		ws.count = 0
	}

	ws.count++
	resetIn := ws.windowStart.Add(window).Sub(now)

	if ws.count <= limit {
		return Decision{Allowed: true, Remaining: limit - ws.count, ResetIn: resetIn}
	}

	if e.recordViolation(ws, now) {
		return Decision{
			ResetIn:    e.blockDuration,
			RetryAfter: e.blockDuration,
			Reason: fmt.Sprintf("Too many violations. You are blocked for %d minutes.",
				int(e.blockDuration.Minutes())),
		}
	}
	return Decision{
		ResetIn:    resetIn,
		RetryAfter: resetIn,
		Reason:     fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", ceilSeconds(resetIn)),
	}
}

// Status reports the key's current standing through the same read path
// as Check, without consuming quota or mutating any counter. Used for
// "remaining" display in clients.
func (e *Engine) Status(key string, limit int, window time.Duration) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	ws := e.store.windows[key]
	if ws == nil {
		return Decision{Allowed: true, Remaining: limit, ResetIn: window}
	}
	if ws.blockedUntil.After(now) {
		retry := ws.blockedUntil.Sub(now)
		return Decision{ResetIn: retry, RetryAfter: retry, Reason: ReasonBlocked}
	}
	if !ws.blockedUntil.IsZero() || now.Sub(ws.windowStart) >= ws.window {
		// The next check would start a fresh window.
		return Decision{Allowed: true, Remaining: limit, ResetIn: window}
	}

	resetIn := ws.windowStart.Add(ws.window).Sub(now)
	if ws.count >= limit {
		return Decision{
			ResetIn:    resetIn,
			RetryAfter: resetIn,
			Reason:     fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", ceilSeconds(resetIn)),
		}
	}
	return Decision{Allowed: true, Remaining: limit - ws.count, ResetIn: resetIn}
}

// ceilSeconds rounds a duration up to whole seconds for message copy.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
