package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
)

func TestGate_Check(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(now)
	gate := New(clk)

	t.Run("zero timestamp is always allowed", func(t *testing.T) {
		st := gate.Check(0, Daily)
		assert.True(t, st.Allowed)
		assert.Zero(t, st.Remaining)
	})

	t.Run("inside the window is denied with remaining wait", func(t *testing.T) {
		last := now.Add(-2 * time.Minute).UnixMilli()
		st := gate.Check(last, PK)
		assert.False(t, st.Allowed)
		assert.Equal(t, 3*time.Minute, st.Remaining)
	})

	t.Run("remaining is positive whenever denied", func(t *testing.T) {
		last := now.Add(-PK + time.Millisecond).UnixMilli()
		st := gate.Check(last, PK)
		assert.False(t, st.Allowed)
		assert.Greater(t, st.Remaining, time.Duration(0))
	})

	t.Run("exactly elapsed is allowed", func(t *testing.T) {
		last := now.Add(-PK).UnixMilli()
		st := gate.Check(last, PK)
		assert.True(t, st.Allowed)
	})

	t.Run("advancing the clock releases the gate", func(t *testing.T) {
		fixed := clock.NewFixed(now)
		g := New(fixed)
		last := now.UnixMilli()

		assert.False(t, g.Check(last, Cultivate).Allowed)
		fixed.Advance(Cultivate)
		assert.True(t, g.Check(last, Cultivate).Allowed)
	})
}

func TestGate_NowMilli(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := New(clock.NewFixed(now))
	assert.Equal(t, now.UnixMilli(), gate.NowMilli())
}

func TestDisplayRounding(t *testing.T) {
	assert.Equal(t, 5, Minutes(4*time.Minute+time.Second))
	assert.Equal(t, 4, Minutes(4*time.Minute))
	assert.Equal(t, 1, Minutes(time.Second))
	assert.Equal(t, 24, Hours(23*time.Hour+59*time.Minute))
	assert.Equal(t, 1, Hours(time.Minute))
}
