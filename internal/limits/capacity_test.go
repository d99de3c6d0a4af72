package limits

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	t.Run("admits members up to capacity", func(t *testing.T) {
		e, _ := newTestEngine(t)

		for i := 0; i < 3; i++ {
			d := e.Join("s1", fmt.Sprintf("participant-%d", i), 3)
			require.True(t, d.Allowed, "join %d should be allowed", i)
			assert.Equal(t, 2-i, d.Remaining)
		}

		d := e.Join("s1", "participant-3", 3)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.Contains(t, d.Reason, "maximum capacity")
	})

	t.Run("rejoin is idempotent and never counted twice", func(t *testing.T) {
		e, _ := newTestEngine(t)

		first := e.Join("s1", "p1", 3)
		require.True(t, first.Allowed)
		require.Equal(t, 2, first.Remaining)

		again := e.Join("s1", "p1", 3)
		assert.True(t, again.Allowed)
		assert.Equal(t, 2, again.Remaining)
		assert.Equal(t, 1, e.Occupancy("s1"))
	})

	t.Run("rejoin of an admitted member succeeds even at capacity", func(t *testing.T) {
		e, _ := newTestEngine(t)

		require.True(t, e.Join("s1", "p1", 2).Allowed)
		require.True(t, e.Join("s1", "p2", 2).Allowed)

		d := e.Join("s1", "p1", 2)
		assert.True(t, d.Allowed)
	})

	t.Run("pools are independent", func(t *testing.T) {
		e, _ := newTestEngine(t)

		require.True(t, e.Join("s1", "p1", 1).Allowed)
		require.False(t, e.Join("s1", "p2", 1).Allowed)
		assert.True(t, e.Join("s2", "p2", 1).Allowed)
	})
}

// Scenario: session s1, capacity 50. Fifty distinct participants join;
// the fifty-first is rejected.
func TestJoin_ReferenceScenario(t *testing.T) {
	e, _ := newTestEngine(t)

	for i := 0; i < 50; i++ {
		d := e.CheckParticipantJoin("s1", fmt.Sprintf("participant-%d", i))
		require.True(t, d.Allowed, "participant-%d should be admitted", i)
	}

	d := e.CheckParticipantJoin("s1", "participant-50")
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "maximum capacity")
	assert.Equal(t, 50, e.Occupancy("s1"))
}

func TestLeave(t *testing.T) {
	t.Run("frees a seat", func(t *testing.T) {
		e, _ := newTestEngine(t)

		require.True(t, e.Join("s1", "p1", 1).Allowed)
		require.False(t, e.Join("s1", "p2", 1).Allowed)

		e.Leave("s1", "p1")

		assert.True(t, e.Join("s1", "p2", 1).Allowed)
	})

	t.Run("is a no-op for unknown pools and members", func(t *testing.T) {
		e, _ := newTestEngine(t)

		e.Leave("nope", "p1")

		require.True(t, e.Join("s1", "p1", 2).Allowed)
		e.Leave("s1", "p2")
		assert.Equal(t, 1, e.Occupancy("s1"))
	})

	t.Run("emptied pool is deleted", func(t *testing.T) {
		e, _ := newTestEngine(t)

		e.Join("s1", "p1", 2)
		e.Leave("s1", "p1")

		e.mu.Lock()
		_, ok := e.store.pools["s1"]
		e.mu.Unlock()
		assert.False(t, ok)
	})
}

func TestClearSession(t *testing.T) {
	t.Run("removes every seat", func(t *testing.T) {
		e, _ := newTestEngine(t)

		for i := 0; i < 3; i++ {
			e.CheckParticipantJoin("s1", fmt.Sprintf("participant-%d", i))
		}
		e.ClearSession("s1")

		assert.Equal(t, 0, e.Occupancy("s1"))
		assert.True(t, e.CheckParticipantJoin("s1", "participant-99").Allowed)
	})

	t.Run("is a no-op for unknown sessions", func(t *testing.T) {
		e, _ := newTestEngine(t)
		e.ClearSession("never-seen")
	})
}
