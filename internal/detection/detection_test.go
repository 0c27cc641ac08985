package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_StartsHiddenAndIdle(t *testing.T) {
	m := New()
	assert.Equal(t, Hidden, m.State(EntityHand0))
	assert.Equal(t, float32(0), m.AlphaMultiplier(EntityHand0))
	assert.True(t, m.IsIdle())
}

func TestTick_HiddenToFadingInToDetected(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	assert.Equal(t, FadingIn, m.State(EntityHand0))

	m.Tick(50, true, false, false)
	assert.Equal(t, FadingIn, m.State(EntityHand0))
	assert.Greater(t, m.AlphaMultiplier(EntityHand0), float32(0))
	assert.Less(t, m.AlphaMultiplier(EntityHand0), float32(1))

	m.Tick(100, true, false, false) // elapsed 100ms >= FADEIN_DURATION
	assert.Equal(t, Detected, m.State(EntityHand0))
	assert.Equal(t, float32(1), m.AlphaMultiplier(EntityHand0))
}

func TestShouldUpdateTargets_TrueInDetectedAndFadingIn(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	assert.True(t, m.ShouldUpdateTargets(EntityHand0))

	m.Tick(100, true, false, false)
	assert.Equal(t, Detected, m.State(EntityHand0))
	assert.True(t, m.ShouldUpdateTargets(EntityHand0))
}

func TestIsFading_TrueInOccludedAndFadingOut(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	m.Tick(100, true, false, false)
	assert.Equal(t, Detected, m.State(EntityHand0))

	m.Tick(150, false, false, false) // -> Occluded
	assert.True(t, m.IsFading(EntityHand0))
	assert.False(t, m.ShouldUpdateTargets(EntityHand0))

	m.Tick(400, false, false, false) // -> FadingOut (300ms since last detection at t=100)
	assert.Equal(t, FadingOut, m.State(EntityHand0))
	assert.True(t, m.IsFading(EntityHand0))
}

func TestB3_OcclusionUnder300msNeverDropsBelowOccludedOpacity(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	m.Tick(100, true, false, false) // Detected at t=100

	m.Tick(150, false, false, false)
	m.Tick(200, false, false, false)
	m.Tick(299, false, false, false) // still under 300ms since last detection at t=100

	assert.Equal(t, Occluded, m.State(EntityHand0))
	assert.GreaterOrEqual(t, m.AlphaMultiplier(EntityHand0), float32(OccludedOpacity)-1e-6)
}

func TestB4_LostFor500msHasZeroAlphaAtReobservationThenFadesInToOne(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	m.Tick(100, true, false, false) // Detected at t=100

	// Occluded starting t=100, FadingOut begins at t=400 (100+300), Hidden at t=600 (400+200).
	m.Tick(200, false, false, false)
	m.Tick(400, false, false, false) // -> FadingOut
	assert.Equal(t, FadingOut, m.State(EntityHand0))
	m.Tick(600, false, false, false) // -> Hidden
	assert.Equal(t, Hidden, m.State(EntityHand0))
	assert.Equal(t, float32(0), m.AlphaMultiplier(EntityHand0))

	m.Tick(601, true, false, false) // re-observed -> FadingIn starting at alpha 0
	assert.Equal(t, FadingIn, m.State(EntityHand0))
	assert.Equal(t, float32(0), m.AlphaMultiplier(EntityHand0))

	m.Tick(701, true, false, false) // 100ms later, FADEIN_DURATION elapsed
	assert.Equal(t, Detected, m.State(EntityHand0))
	assert.Equal(t, float32(1), m.AlphaMultiplier(EntityHand0))
}

func TestB1_IdleAfterThresholdWithNoEntities(t *testing.T) {
	m := New()
	m.Tick(0, false, false, false)
	assert.True(t, m.IsIdle())

	m.Tick(1, true, false, false)
	m.Tick(501, false, false, false)
	assert.True(t, m.IsIdle())
}

func TestReset_ReturnsToHiddenAndIdle(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	m.Tick(100, true, false, false)
	assert.Equal(t, Detected, m.State(EntityHand0))

	m.Reset()
	assert.Equal(t, Hidden, m.State(EntityHand0))
	assert.True(t, m.IsIdle())
}

func TestL2_DoubleResetEqualsSingleReset(t *testing.T) {
	m := New()
	m.Tick(0, true, false, false)
	m.Reset()
	m.Reset()
	assert.Equal(t, Hidden, m.State(EntityHand0))
	assert.Equal(t, float32(0), m.AlphaMultiplier(EntityHand0))
}
