// Package particlepool owns all particle memory: the struct-of-arrays
// physics state, the interleaved GPU-ready buffer rebuilt from it each
// commit, and the static landmark-to-particle range map built once at
// construction. Nothing here allocates after New returns (spec.md §5,
// "zero-allocation steady state").
package particlepool

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/particlebind/core/internal/depthscale"
	"github.com/particlebind/core/internal/distribution"
	"github.com/particlebind/core/internal/types"
)

// Range is a contiguous window of particle indices bound to one
// landmark.
type Range struct {
	Start int
	Count int
}

// Config is the construction-time budget and sizing for a Pool.
type Config struct {
	// MaxParticles is a hard upper bound on pool size. If the natural
	// particle count implied by the distribution tables (two hands plus
	// one face) exceeds it, every zone's count is scaled down
	// proportionally. Zero means "no clipping" — use the natural total.
	MaxParticles int

	BaseParticleSize float32
	SizeVariance     float32
}

const (
	defaultBaseParticleSize = 2.0
	defaultSizeVariance     = 1.0

	offscreenX = -1000
	offscreenY = -1000

	// visibilityFloor is the visibility value at or below which a
	// landmark is treated as not contributing alpha at all.
	visibilityFloor = 0.0
)

var offscreen = mgl32.Vec2{offscreenX, offscreenY}

// Pool holds every particle's physics state and static binding, plus
// the range maps used to address a landmark's slice of particles.
// Position, velocity, and target use mgl32.Vec2 — one array per field
// (struct-of-arrays), each array's elements a 2-vector — matching the
// teacher's particlePool shape in particles_ecs.go.
type Pool struct {
	allocated int

	pos    []mgl32.Vec2
	vel    []mgl32.Vec2
	target []mgl32.Vec2
	size   []float32
	colorR []float32
	colorG []float32
	colorB []float32
	alpha  []float32
	// depthAlpha is the per-particle alpha after depth scaling but
	// before the entity's state-machine multiplier is applied. Keeping
	// it separate lets ApplyHandAlphaMultiplier/ApplyFaceAlphaMultiplier
	// re-derive the final alpha from a stable base instead of compounding
	// a multiply onto an already-multiplied value every tick.
	depthAlpha []float32

	landmarkIndex []int32
	landmarkKind  []types.LandmarkKind
	handSlot      []int8 // 0 or 1; -1 for face particles

	handRanges map[int]Range // key: slot*100 + landmarkIndex
	faceRanges map[int]Range // key: landmarkIndex

	canvasWidth, canvasHeight float32

	baseSize, sizeVariance float32

	buffer     []float32 // interleaved [x,y,size,r,g,b,alpha] * allocated
	generation uint64
}

// PhysicsArrays is a view over the pool's physics state for the
// simulator to mutate in place. The slices alias the pool's own
// backing arrays; writes through them are writes to the pool.
type PhysicsArrays struct {
	Pos, Vel, Target []mgl32.Vec2
	Alpha            []float32
}

// New builds the landmark-to-range map in the fixed slot order (hand
// slot 0, hand slot 1, face), allocates every array, writes binding
// fields once, and initializes every particle off-screen with zero
// velocity and zero alpha.
func New(cfg Config) *Pool {
	baseSize := cfg.BaseParticleSize
	if baseSize <= 0 {
		baseSize = defaultBaseParticleSize
	}
	sizeVariance := cfg.SizeVariance
	if sizeVariance < 0 {
		sizeVariance = defaultSizeVariance
	}

	factor := clipFactor(cfg.MaxParticles)

	p := &Pool{
		handRanges:   make(map[int]Range),
		faceRanges:   make(map[int]Range),
		baseSize:     baseSize,
		sizeVariance: sizeVariance,
	}

	type pending struct {
		key    int
		isHand bool
		count  int
	}
	var plan []pending
	total := 0
	for slot := 0; slot < 2; slot++ {
		for idx := 0; idx < distribution.HandLandmarkCount; idx++ {
			zone := distribution.HandZone(idx)
			count := scaledCount(zone.Count, factor)
			plan = append(plan, pending{key: slot*100 + idx, isHand: true, count: count})
			total += count
		}
	}
	for idx := 0; idx < distribution.FaceLandmarkCount; idx++ {
		zone := distribution.FaceZone(idx)
		count := scaledCount(zone.Count, factor)
		plan = append(plan, pending{key: idx, isHand: false, count: count})
		total += count
	}

	p.allocated = total
	p.pos = make([]mgl32.Vec2, total)
	p.vel = make([]mgl32.Vec2, total)
	p.target = make([]mgl32.Vec2, total)
	p.size = make([]float32, total)
	p.colorR = make([]float32, total)
	p.colorG = make([]float32, total)
	p.colorB = make([]float32, total)
	p.alpha = make([]float32, total)
	p.depthAlpha = make([]float32, total)
	p.landmarkIndex = make([]int32, total)
	p.landmarkKind = make([]types.LandmarkKind, total)
	p.handSlot = make([]int8, total)

	cursor := 0
	slotCursor := -1
	landmarkCursor := -1
	for _, item := range plan {
		r := Range{Start: cursor, Count: item.count}
		if item.isHand {
			slotCursor = item.key / 100
			landmarkCursor = item.key % 100
			p.handRanges[item.key] = r
		} else {
			landmarkCursor = item.key
			p.faceRanges[item.key] = r
		}
		for i := 0; i < item.count; i++ {
			idx := cursor + i
			p.pos[idx] = offscreen
			p.target[idx] = offscreen
			p.landmarkIndex[idx] = int32(landmarkCursor)
			if item.isHand {
				p.landmarkKind[idx] = types.LandmarkHand
				p.handSlot[idx] = int8(slotCursor)
			} else {
				p.landmarkKind[idx] = types.LandmarkFace
				p.handSlot[idx] = -1
			}
			p.size[idx] = baseSize
		}
		cursor += item.count
	}

	p.buffer = make([]float32, total*7)
	return p
}

// clipFactor returns the proportional scale-down factor applied to
// every zone's particle count so the pool fits within maxParticles.
// maxParticles <= 0 means unclipped.
func clipFactor(maxParticles int) float64 {
	if maxParticles <= 0 {
		return 1.0
	}
	natural := 2*distribution.HandTotalParticles() + distribution.FaceTotalParticles()
	if natural <= maxParticles {
		return 1.0
	}
	return float64(maxParticles) / float64(natural)
}

func scaledCount(natural int, factor float64) int {
	if factor >= 1.0 {
		return natural
	}
	// Truncation keeps the total within the budget; a landmark whose
	// share rounds down to zero gets an empty range.
	return int(float64(natural) * factor)
}

// Allocated is the total particle count N (spec.md invariant I2).
func (p *Pool) Allocated() int { return p.allocated }

// HandRange returns the range bound to a given hand slot/landmark pair.
func (p *Pool) HandRange(slot, landmarkIndex int) (Range, bool) {
	r, ok := p.handRanges[slot*100+landmarkIndex]
	return r, ok
}

// FaceRange returns the range bound to a given face landmark index.
func (p *Pool) FaceRange(landmarkIndex int) (Range, bool) {
	r, ok := p.faceRanges[landmarkIndex]
	return r, ok
}

// SetCanvasSize updates the coordinate-conversion reference used by the
// next update_*_targets pass.
func (p *Pool) SetCanvasSize(widthPx, heightPx float32) {
	p.canvasWidth = widthPx
	p.canvasHeight = heightPx
}

// visibilityAlpha maps a landmark's visibility into the [0.7, 1.0] band
// the spec calls base_alpha, or 0 when the landmark isn't visible at
// all.
func visibilityAlpha(visibility float64) float32 {
	if visibility <= visibilityFloor {
		return 0
	}
	v := visibility
	if v > 1 {
		v = 1
	}
	return float32(0.7 + 0.3*v)
}

// particleSize spreads size_variance deterministically across a
// landmark's particles by local index, so particles within one range
// aren't visually identical without needing a persistent RNG (which
// would cost state and break reproducibility across runs).
func particleSize(base, variance float32, localIndex int) float32 {
	if variance <= 0 {
		return base
	}
	frac := float32(localIndex%7) / 7.0 // in [0, 1)
	return base + variance*(frac*2-1)
}

// UpdateHandTargets writes target, color, and alpha for every particle
// bound to the given hand slot's 21 landmarks. alphaMultiplier is the
// entity-level multiplier from the detection state machine; callers
// must gate calls to this by should_update_targets (spec.md §4.E) —
// the pool itself does not know about detection state.
func (p *Pool) UpdateHandTargets(slot int, landmarks [21]types.Landmark, color types.Color, alphaMultiplier float32) {
	for landmarkIndex := 0; landmarkIndex < distribution.HandLandmarkCount; landmarkIndex++ {
		r, ok := p.HandRange(slot, landmarkIndex)
		if !ok || r.Count == 0 {
			continue
		}
		lm := landmarks[landmarkIndex]
		zone := distribution.HandZone(landmarkIndex)

		base := visibilityAlpha(lm.Visibility)
		depth := depthscale.Scale(lm.Z, base, depthscale.ProfileHand)
		if base == 0 {
			// depthscale floors its alpha at 0.1; an invisible landmark stays at 0.
			depth.AlphaMultiplier = 0
		}

		screen := mgl32.Vec2{(1 - float32(lm.X)) * p.canvasWidth, float32(lm.Y) * p.canvasHeight}

		p.writeRange(r, screen, zone.SpreadMin, zone.SpreadMax, depth.SpreadScale, color, depth.AlphaMultiplier, alphaMultiplier)
	}
}

// UpdateFaceTargets is the face analogue of UpdateHandTargets. Each
// landmark's depth boost is folded into z before scaling, per
// spec.md §4.C ("not implemented as a positional offset").
func (p *Pool) UpdateFaceTargets(landmarks [468]types.Landmark, color types.Color, alphaMultiplier float32) {
	for landmarkIndex := 0; landmarkIndex < distribution.FaceLandmarkCount; landmarkIndex++ {
		r, ok := p.FaceRange(landmarkIndex)
		if !ok || r.Count == 0 {
			continue
		}
		lm := landmarks[landmarkIndex]
		zone := distribution.FaceZone(landmarkIndex)

		base := visibilityAlpha(lm.Visibility)
		boostedZ := lm.Z * float64(zone.DepthBoost)
		depth := depthscale.Scale(boostedZ, base, depthscale.ProfileFace)
		if base == 0 {
			depth.AlphaMultiplier = 0
		}

		screen := mgl32.Vec2{(1 - float32(lm.X)) * p.canvasWidth, float32(lm.Y) * p.canvasHeight}

		p.writeRange(r, screen, zone.SpreadMin, zone.SpreadMax, depth.SpreadScale, color, depth.AlphaMultiplier, alphaMultiplier)
	}
}

func (p *Pool) writeRange(r Range, screen mgl32.Vec2, spreadMin, spreadMax, depthScale float32, color types.Color, depthAlpha, entityAlpha float32) {
	final := clampAlpha(depthAlpha * entityAlpha)
	for i := 0; i < r.Count; i++ {
		idx := r.Start + i
		offset := distribution.Offset(i, r.Count, spreadMin, spreadMax, depthScale)
		p.target[idx] = screen.Add(offset)
		p.colorR[idx] = color.R
		p.colorG[idx] = color.G
		p.colorB[idx] = color.B
		p.depthAlpha[idx] = depthAlpha
		p.alpha[idx] = final
		p.size[idx] = particleSize(p.baseSize, p.sizeVariance, i)
	}
}

func clampAlpha(a float32) float32 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// ApplyHandAlphaMultiplier re-derives final alpha from the stable
// depth-adjusted base for every particle bound to a hand slot, without
// touching targets. Used while the state machine holds targets frozen
// during Occluded/FadingOut.
func (p *Pool) ApplyHandAlphaMultiplier(slot int, m float32) {
	for landmarkIndex := 0; landmarkIndex < distribution.HandLandmarkCount; landmarkIndex++ {
		r, ok := p.HandRange(slot, landmarkIndex)
		if !ok {
			continue
		}
		p.applyMultiplier(r, m)
	}
}

// ApplyFaceAlphaMultiplier is the face analogue of
// ApplyHandAlphaMultiplier.
func (p *Pool) ApplyFaceAlphaMultiplier(m float32) {
	for landmarkIndex := 0; landmarkIndex < distribution.FaceLandmarkCount; landmarkIndex++ {
		r, ok := p.FaceRange(landmarkIndex)
		if !ok {
			continue
		}
		p.applyMultiplier(r, m)
	}
}

func (p *Pool) applyMultiplier(r Range, m float32) {
	for i := r.Start; i < r.Start+r.Count; i++ {
		p.alpha[i] = clampAlpha(p.depthAlpha[i] * m)
	}
}

// PhysicsArrays exposes the pool's physics state for the simulator to
// mutate directly. The returned slices alias the pool's own arrays.
func (p *Pool) PhysicsArrays() PhysicsArrays {
	return PhysicsArrays{
		Pos: p.pos, Vel: p.vel, Target: p.target,
		Alpha: p.alpha,
	}
}

// FillFadingMask writes, into a caller-owned slice sized Allocated(),
// whether each particle's owning entity is currently fading. Keeping
// the binding arrays private to the pool while letting the Coordinator
// drive per-entity fading state from the detection state machine.
func (p *Pool) FillFadingMask(out []bool, hand0Fading, hand1Fading, faceFading bool) {
	for i := 0; i < p.allocated; i++ {
		switch p.landmarkKind[i] {
		case types.LandmarkHand:
			if p.handSlot[i] == 0 {
				out[i] = hand0Fading
			} else {
				out[i] = hand1Fading
			}
		case types.LandmarkFace:
			out[i] = faceFading
		}
	}
}

// SnapToTargets sets every particle's position equal to its current
// target and zeroes velocity, avoiding a long zoom-in on the first
// frame with valid interpolator data (spec.md §4.F).
func (p *Pool) SnapToTargets() {
	copy(p.pos, p.target)
	for i := range p.vel {
		p.vel[i] = mgl32.Vec2{}
	}
}

// Commit copies the physics arrays into the interleaved GPU buffer and
// increments the validity generation counter.
func (p *Pool) Commit() {
	for i := 0; i < p.allocated; i++ {
		o := i * 7
		p.buffer[o+0] = p.pos[i][0]
		p.buffer[o+1] = p.pos[i][1]
		p.buffer[o+2] = p.size[i]
		p.buffer[o+3] = p.colorR[i]
		p.buffer[o+4] = p.colorG[i]
		p.buffer[o+5] = p.colorB[i]
		p.buffer[o+6] = p.alpha[i]
	}
	p.generation++
}

// Buffer returns the interleaved particle buffer, the live particle
// count, and the current validity generation.
func (p *Pool) Buffer() ([]float32, int, uint64) {
	return p.buffer, p.allocated, p.generation
}

// VisibleCount counts particles with alpha above the visibility
// threshold. Diagnostics only — not used by any invariant.
func (p *Pool) VisibleCount() int {
	n := 0
	for _, a := range p.alpha {
		if a > 0.01 {
			n++
		}
	}
	return n
}

// Reset hides every particle (alpha and depthAlpha to 0, velocity to
// zero) without reallocating. Positions and targets are left where
// they are; the next update_*_targets pass repositions visible
// particles before any alpha goes non-zero again.
func (p *Pool) Reset() {
	for i := 0; i < p.allocated; i++ {
		p.alpha[i] = 0
		p.depthAlpha[i] = 0
		p.vel[i] = mgl32.Vec2{}
	}
}
