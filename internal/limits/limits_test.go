package limits

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

// fakeClock is a manually-advanced clock for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestEngine builds an engine on a fake clock and tears it down with
// the test.
func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	e := NewEngine(logger.New(io.Discard, "error"), WithClock(clk))
	t.Cleanup(e.Destroy)
	return e, clk
}
