package limits

import (
	"fmt"
	"time"
)

// reapLoop runs the periodic sweep until Destroy closes the done
// channel.
func (e *Engine) reapLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.sweep()
		}
	}
}

// sweep evicts window records that have been inactive longer than the
// staleness bound (a multiple of the window they were last checked
// with). Records are deleted, not reset: the key reverts to fresh
// behavior on next use. Capacity pools are never time-swept — an
// idle-but-joined member must not silently lose their seat.
//
// The sweep runs unsupervised, so it recovers from any panic rather
// than taking down the host process; the next scheduled run proceeds
// normally.
func (e *Engine) sweep() {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("limits sweep failed", "panic", fmt.Sprint(r))
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	evicted := 0
	for key, ws := range e.store.windows {
		stale := time.Duration(e.staleMultiplier) * ws.window
		if stale <= 0 {
			stale = time.Duration(e.staleMultiplier) * IdeaSubmissionWindow
		}
		if now.Sub(ws.lastActivity) > stale {
			delete(e.store.windows, key)
			evicted++
		}
	}

	if evicted > 0 {
		e.log.Debug("evicted stale rate state", "evicted", evicted)
	}
}
