package limits

import "time"

// recordViolation accrues one rate-window breach for the key. The
// counter survives window rollovers; only reaching the escalation
// threshold or an explicit Reset clears it. Returns true when this
// breach crossed the threshold and a timed block was installed.
//
// Caller holds the engine mutex.
func (e *Engine) recordViolation(ws *windowState, now time.Time) bool {
	ws.violations++
	if ws.violations < e.violationThreshold {
		return false
	}

	// Escalation is a full reset going forward: the block replaces both
	// the violation history and the current window. When the block
	// expires the key starts from a clean slate.
	ws.blockedUntil = now.Add(e.blockDuration)
	ws.violations = 0
	ws.count = 0
	ws.windowStart = now
	return true
}
