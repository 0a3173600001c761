package param

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRamper_BothViewsStartEqual(t *testing.T) {
	r := NewRamper(440)
	assert.Equal(t, 440.0, r.Pending())
	assert.Equal(t, 440.0, r.Immediate())
	assert.False(t, r.IsRamping())
}

func TestSetPending_DoesNotAffectImmediate(t *testing.T) {
	r := NewRamper(1)
	r.SetPending(5)

	assert.Equal(t, 5.0, r.Pending())
	assert.Equal(t, 1.0, r.Immediate())
}

func TestSetImmediate_ZeroDurationSnaps(t *testing.T) {
	r := NewRamper(0)
	r.SetPending(0.75)
	r.SetImmediate(r.Pending(), 0)

	// Round-trip: with zero ramp duration the immediate value equals the
	// requested value exactly, no residual interpolation.
	assert.Equal(t, 0.75, r.Immediate())
	assert.False(t, r.IsRamping())
}

func TestRamp_ReachesTargetExactly(t *testing.T) {
	// 0.1 is not exactly representable, so D increments of (v1-v0)/D would
	// drift without the final pin.
	for _, d := range []int{1, 3, 7, 100, 4800} {
		r := NewRamper(0.1)
		r.SetImmediate(0.7, d)

		for i := 0; i < d; i++ {
			r.Tick()
		}

		require.Equal(t, 0.7, r.Immediate(), "duration %d", d)
		require.False(t, r.IsRamping(), "duration %d", d)

		// Extra ticks are no-ops.
		r.Tick()
		require.Equal(t, 0.7, r.Immediate())
	}
}

func TestRamp_Monotonic(t *testing.T) {
	check := func(v0, v1 float64, d int) {
		r := NewRamper(v0)
		r.SetImmediate(v1, d)

		prev := r.Immediate()
		for i := 0; i < d; i++ {
			r.Tick()
			cur := r.Immediate()
			if v1 > v0 {
				require.GreaterOrEqual(t, cur, prev, "v0=%v v1=%v d=%d tick=%d", v0, v1, d, i)
				require.LessOrEqual(t, cur, v1)
			} else {
				require.LessOrEqual(t, cur, prev, "v0=%v v1=%v d=%d tick=%d", v0, v1, d, i)
				require.GreaterOrEqual(t, cur, v1)
			}
			prev = cur
		}
	}

	check(0, 1, 13)
	check(1, 0, 13)
	check(-2.5, 7.25, 97)
	check(8000, 400, 882)
}

func TestTickBy_MatchesRepeatedTick(t *testing.T) {
	a := NewRamper(0)
	b := NewRamper(0)
	a.SetImmediate(1, 10)
	b.SetImmediate(1, 10)

	for i := 0; i < 4; i++ {
		a.Tick()
	}
	b.TickBy(4)

	assert.InDelta(t, a.Immediate(), b.Immediate(), 1e-15)

	// Advancing past the end of the ramp pins to the target.
	b.TickBy(100)
	assert.Equal(t, 1.0, b.Immediate())
	assert.False(t, b.IsRamping())
}

func TestStartRamp_OnlyOnNewPendingValue(t *testing.T) {
	r := NewRamper(100)

	// No pending change: nothing to ramp.
	assert.False(t, r.StartRamp(8))
	assert.Equal(t, 100.0, r.Immediate())

	r.SetPending(200)
	require.True(t, r.StartRamp(8))
	assert.Equal(t, 200.0, r.Target())

	// Same pending value again: the running ramp is not restarted.
	r.Tick()
	mid := r.Immediate()
	require.True(t, r.StartRamp(8))
	assert.Equal(t, mid, r.Immediate())
}

func TestSetImmediate_SupersedesRemainingRamp(t *testing.T) {
	r := NewRamper(0)
	r.SetImmediate(1, 10)
	for i := 0; i < 5; i++ {
		r.Tick()
	}
	require.InDelta(t, 0.5, r.Immediate(), 1e-12)

	// A later request replaces the rest of the first ramp from wherever
	// the immediate value currently sits.
	r.SetImmediate(-1, 3)
	for i := 0; i < 3; i++ {
		r.Tick()
	}
	assert.Equal(t, -1.0, r.Immediate())
}

func TestReset_SnapsToPending(t *testing.T) {
	r := NewRamper(0)
	r.SetPending(3)
	r.SetImmediate(1, 100)
	r.Tick()

	r.Reset()
	assert.Equal(t, 3.0, r.Immediate())
	assert.False(t, r.IsRamping())

	// The reset consumed the pending change; no ramp starts afterwards.
	assert.False(t, r.StartRamp(8))
}

func TestSetPending_ConcurrentWriters(t *testing.T) {
	// The pending slot is a single atomic word: concurrent writers must
	// never produce a torn value. The final value is whichever write
	// landed last.
	r := NewRamper(0)
	valid := map[float64]bool{}
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		v := float64(i) * 1000
		valid[v] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				r.SetPending(v)
			}
		}()
	}
	wg.Wait()

	assert.True(t, valid[r.Pending()], "pending value %v is not one of the written values", r.Pending())
}
