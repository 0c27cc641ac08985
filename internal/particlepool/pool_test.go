package particlepool

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/particlebind/core/internal/distribution"
	"github.com/particlebind/core/internal/types"
	"github.com/stretchr/testify/assert"
)

func newTestPool() *Pool {
	return New(Config{})
}

func TestNew_RangeCoverageIsExactAndDisjoint(t *testing.T) {
	p := newTestPool()

	covered := make([]bool, p.Allocated())
	total := 0
	check := func(r Range) {
		total += r.Count
		for i := r.Start; i < r.Start+r.Count; i++ {
			assert.False(t, covered[i], "index %d covered twice", i)
			covered[i] = true
		}
	}
	for slot := 0; slot < 2; slot++ {
		for idx := 0; idx < distribution.HandLandmarkCount; idx++ {
			r, ok := p.HandRange(slot, idx)
			assert.True(t, ok)
			check(r)
		}
	}
	for idx := 0; idx < distribution.FaceLandmarkCount; idx++ {
		r, ok := p.FaceRange(idx)
		assert.True(t, ok)
		check(r)
	}

	assert.Equal(t, p.Allocated(), total)
	for i, c := range covered {
		assert.True(t, c, "index %d not covered", i)
	}
}

func TestNew_PerHandAndFaceTotalsWithinInvariantRange(t *testing.T) {
	p := newTestPool()

	for slot := 0; slot < 2; slot++ {
		total := 0
		for idx := 0; idx < distribution.HandLandmarkCount; idx++ {
			r, _ := p.HandRange(slot, idx)
			total += r.Count
		}
		assert.GreaterOrEqual(t, total, 800)
		assert.LessOrEqual(t, total, 1200)
	}

	faceTotal := 0
	for idx := 0; idx < distribution.FaceLandmarkCount; idx++ {
		r, _ := p.FaceRange(idx)
		faceTotal += r.Count
	}
	assert.GreaterOrEqual(t, faceTotal, 4000)
	assert.LessOrEqual(t, faceTotal, 6000)
}

func TestNew_ClipsToMaxParticles(t *testing.T) {
	p := New(Config{MaxParticles: 1000})
	assert.LessOrEqual(t, p.Allocated(), 1000)
	assert.Greater(t, p.Allocated(), 0)
}

func TestNew_InitialStateIsOffscreenAndInvisible(t *testing.T) {
	p := newTestPool()
	arr := p.PhysicsArrays()
	for i := 0; i < p.Allocated(); i++ {
		assert.Equal(t, mgl32.Vec2{-1000, -1000}, arr.Pos[i])
		assert.Equal(t, float32(0), arr.Alpha[i])
	}
}

func TestBindings_NeverChangeAcrossTargetUpdates(t *testing.T) {
	p := newTestPool()

	snapshotKind := append([]types.LandmarkKind(nil), p.landmarkKind...)
	snapshotIdx := append([]int32(nil), p.landmarkIndex...)
	snapshotSlot := append([]int8(nil), p.handSlot...)

	p.SetCanvasSize(1920, 1080)
	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 0.4)

	assert.Equal(t, snapshotKind, p.landmarkKind)
	assert.Equal(t, snapshotIdx, p.landmarkIndex)
	assert.Equal(t, snapshotSlot, p.handSlot)
}

func TestUpdateHandTargets_PositionsNearLandmarkScreenCoordinate(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)

	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)

	wantX, wantY := float32(1344), float32(540)
	r, _ := p.HandRange(0, 0)
	for i := r.Start; i < r.Start+r.Count; i++ {
		assert.InDelta(t, wantX, p.target[i].X(), 12)
		assert.InDelta(t, wantY, p.target[i].Y(), 12)
	}
}

func TestUpdateHandTargets_InvisibleLandmarkZerosAlpha(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)

	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 0}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)

	r, _ := p.HandRange(0, 0)
	for i := r.Start; i < r.Start+r.Count; i++ {
		assert.Equal(t, float32(0), p.alpha[i])
	}
}

func TestApplyHandAlphaMultiplier_LeavesTargetsUntouched(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)

	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)

	r, _ := p.HandRange(0, 0)
	want := p.target[r.Start]

	p.ApplyHandAlphaMultiplier(0, 0.7)

	assert.Equal(t, want, p.target[r.Start])
	assert.InDelta(t, float64(p.depthAlpha[r.Start])*0.7, float64(p.alpha[r.Start]), 1e-6)
}

func TestApplyHandAlphaMultiplier_DoesNotCompoundAcrossCalls(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)
	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)

	r, _ := p.HandRange(0, 0)
	base := p.depthAlpha[r.Start]

	p.ApplyHandAlphaMultiplier(0, 0.7)
	p.ApplyHandAlphaMultiplier(0, 0.7)

	assert.InDelta(t, float64(base)*0.7, float64(p.alpha[r.Start]), 1e-6)
}

func TestSetColors_ChangesColorWithoutMovingParticles(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)
	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 0, G: 1, B: 0}, 1.0)
	r, _ := p.HandRange(0, 0)
	before := p.target[r.Start]

	p.UpdateHandTargets(0, landmarks, types.Color{R: 1, G: 0, B: 0}, 1.0)

	assert.Equal(t, float32(1), p.colorR[r.Start])
	assert.Equal(t, float32(0), p.colorG[r.Start])
	assert.Equal(t, before, p.target[r.Start])
}

func TestCommit_PacksInterleavedBufferConsistently(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)
	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1, G: 0.5, B: 0.25}, 1.0)
	p.SnapToTargets()
	p.Commit()

	buf, n, gen := p.Buffer()
	assert.Equal(t, uint64(1), gen)
	assert.Equal(t, p.Allocated(), n)
	assert.Len(t, buf, n*7)

	r, _ := p.HandRange(0, 0)
	o := r.Start * 7
	assert.Equal(t, p.pos[r.Start].X(), buf[o+0])
	assert.Equal(t, p.pos[r.Start].Y(), buf[o+1])
	assert.Equal(t, p.size[r.Start], buf[o+2])
	assert.Equal(t, float32(1), buf[o+3])
	assert.Equal(t, float32(0.5), buf[o+4])
	assert.Equal(t, float32(0.25), buf[o+5])
}

func TestReset_ZeroesAlphaAndVelocityWithoutReallocating(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)
	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)
	arr := p.PhysicsArrays()
	arr.Vel[0] = mgl32.Vec2{5, 0}

	bufBefore, _, _ := p.Buffer()

	p.Reset()

	for _, a := range p.alpha {
		assert.Equal(t, float32(0), a)
	}
	for _, v := range arr.Vel {
		assert.Equal(t, mgl32.Vec2{}, v)
	}

	bufAfter, _, _ := p.Buffer()
	assert.Same(t, &bufBefore[0], &bufAfter[0])
}

func TestVisibleCount_CountsAboveThreshold(t *testing.T) {
	p := newTestPool()
	assert.Equal(t, 0, p.VisibleCount())

	p.SetCanvasSize(1920, 1080)
	var landmarks [21]types.Landmark
	for i := range landmarks {
		landmarks[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, landmarks, types.Color{R: 1}, 1.0)
	assert.Greater(t, p.VisibleCount(), 0)
}

func TestFillFadingMask_MapsEntitiesToParticles(t *testing.T) {
	p := newTestPool()
	mask := make([]bool, p.Allocated())
	p.FillFadingMask(mask, true, false, true)

	r0, _ := p.HandRange(0, 0)
	r1, _ := p.HandRange(1, 0)
	rf, _ := p.FaceRange(0)

	assert.True(t, mask[r0.Start])
	assert.False(t, mask[r1.Start])
	assert.True(t, mask[rf.Start])
}

func TestCommit_SteadyStateAllocatesNothing(t *testing.T) {
	p := newTestPool()
	p.SetCanvasSize(1920, 1080)

	var hand [21]types.Landmark
	for i := range hand {
		hand[i] = types.Landmark{X: 0.3, Y: 0.5, Z: 0, Visibility: 1}
	}
	var face [468]types.Landmark
	for i := range face {
		face[i] = types.Landmark{X: 0.5, Y: 0.4, Z: 0, Visibility: 1}
	}
	p.UpdateHandTargets(0, hand, types.Color{R: 1}, 1.0)
	p.UpdateHandTargets(1, hand, types.Color{G: 1}, 1.0)
	p.UpdateFaceTargets(face, types.Color{B: 1}, 1.0)
	p.Commit() // warm up before measuring

	allocs := testing.AllocsPerRun(100, func() {
		p.Commit()
	})
	assert.Zero(t, allocs, "Commit must not allocate once the pool is warm (spec.md §5 zero-allocation steady state)")
}
