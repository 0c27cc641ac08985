// Package physics advances the particle pool's physics arrays with a
// fixed 16.67ms timestep, applying one of two force models plus
// organic noise, and a separate drift behavior for particles whose
// owning entity is fading out (spec.md §4.F).
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/particlebind/core/internal/particlepool"
)

// Mode selects the force model applied to non-fading particles.
type Mode int

const (
	Attract Mode = iota
	Repel
)

const (
	FixedStepMS     = 16.67
	MaxStepsPerTick = 4
	MaxVelocity     = 50 // px/step

	attractK       = 0.15
	attractDamping = 0.92

	fadingAttractK        = attractK * 0.1
	fadingDampingFactor   = 0.97
	fadingNoiseAmplitude  = 0.3 * 0.3
	normalNoiseAmplitude  = 0.3
)

// RepulsionConfig is the tunable parameter set for Repel mode.
type RepulsionConfig struct {
	MinR, MaxR float32
	Strength   float32
	Damping    float32
}

// DefaultRepulsionConfig matches spec.md §4.F's reference values.
func DefaultRepulsionConfig() RepulsionConfig {
	return RepulsionConfig{MinR: 30, MaxR: 120, Strength: 0.12, Damping: 0.88}
}

// Simulator is total: every operation succeeds, and every numeric
// output is bounded by the velocity clamp and the force formulas
// themselves (spec.md §7).
type Simulator struct {
	mode      Mode
	repulsion RepulsionConfig

	accumulatorMS float64
	// simSeconds is a simulated clock driven only by fixed steps taken,
	// never by wall time, so noise stays deterministic and reproducible
	// across runs with identical input (spec.md §9 Open Questions: the
	// source reads a stale "last frame" timestamp for its noise input;
	// using an internally-accumulated simulated time sidesteps the
	// ambiguity entirely while keeping the same qualitative behavior).
	simSeconds float64
}

// New returns a simulator in Attract mode with the default repulsion
// configuration.
func New() *Simulator {
	return &Simulator{repulsion: DefaultRepulsionConfig()}
}

// SetMode changes the active force model. Idempotent: calling it twice
// with the same mode leaves the same state as calling it once
// (spec.md L3).
func (s *Simulator) SetMode(m Mode) { s.mode = m }

// Mode returns the active force model.
func (s *Simulator) Mode() Mode { return s.mode }

// ToggleMode flips Attract<->Repel and returns the new mode.
func (s *Simulator) ToggleMode() Mode {
	if s.mode == Attract {
		s.mode = Repel
	} else {
		s.mode = Attract
	}
	return s.mode
}

// SetRepulsionConfig replaces the Repel-mode tuning parameters.
func (s *Simulator) SetRepulsionConfig(cfg RepulsionConfig) { s.repulsion = cfg }

// ApplyImpulse adds (fx, fy) to every particle currently visible
// (alpha above the 0.01 visibility floor), for one-shot visual
// effects. It does not wait for the next fixed step.
func (s *Simulator) ApplyImpulse(arrays particlepool.PhysicsArrays, impulse mgl32.Vec2) {
	for i := range arrays.Pos {
		if arrays.Alpha[i] <= 0.01 {
			continue
		}
		arrays.Vel[i] = arrays.Vel[i].Add(impulse)
	}
}

// Advance runs zero to MaxStepsPerTick fixed steps to consume dtMS of
// elapsed wall time, and returns the number of steps actually taken
// (spec.md I6: always in {0,1,2,3,4}). fading reports, per particle
// index, whether that particle's owning entity is currently fading
// (Occluded or FadingOut) — the caller derives it once per tick from
// the detection state machine and the pool's bindings.
func (s *Simulator) Advance(dtMS float64, arrays particlepool.PhysicsArrays, fading []bool) int {
	s.accumulatorMS += dtMS
	steps := 0
	for s.accumulatorMS >= FixedStepMS && steps < MaxStepsPerTick {
		s.step(arrays, fading)
		s.accumulatorMS -= FixedStepMS
		steps++
	}
	return steps
}

func (s *Simulator) step(arrays particlepool.PhysicsArrays, fading []bool) {
	s.simSeconds += FixedStepMS / 1000
	t := s.simSeconds

	for i := range arrays.Pos {
		if arrays.Alpha[i] <= 0.01 {
			continue
		}

		pos := arrays.Pos[i]
		delta := arrays.Target[i].Sub(pos)
		d := delta.Len()
		var n mgl32.Vec2
		if d > 1e-6 {
			n = delta.Mul(1 / d)
		}

		isFading := i < len(fading) && fading[i]

		var force mgl32.Vec2
		var damping float32
		noiseAmp := float32(normalNoiseAmplitude)

		if isFading {
			force = delta.Mul(fadingAttractK)
			force[0] += float32(math.Sin(t+float64(i)*0.1)) * 0.5
			force[1] += float32(math.Cos(1.2*t+float64(i)*0.15)) * 0.5
			damping = attractDamping * fadingDampingFactor
			noiseAmp = fadingNoiseAmplitude
		} else {
			switch s.mode {
			case Attract:
				force = delta.Mul(attractK)
				damping = attractDamping
			case Repel:
				force, damping = s.repelForce(n, d)
			}
		}

		noise := mgl32.Vec2{
			float32(math.Sin(float64(pos.X())*0.01+t+float64(i)*0.1)) * noiseAmp,
			float32(math.Cos(float64(pos.Y())*0.01+1.1*t+float64(i)*0.1)) * noiseAmp,
		}

		vel := arrays.Vel[i].Add(force).Add(noise).Mul(damping)

		if speed := vel.Len(); speed > MaxVelocity {
			vel = vel.Mul(MaxVelocity / speed)
		}

		arrays.Vel[i] = vel
		arrays.Pos[i] = pos.Add(vel)
	}
}

func (s *Simulator) repelForce(n mgl32.Vec2, d float32) (force mgl32.Vec2, damping float32) {
	cfg := s.repulsion
	damping = cfg.Damping
	switch {
	case d < cfg.MinR:
		scale := (1 - d/cfg.MinR) * cfg.Strength * 20
		force = n.Mul(-scale)
	case d < cfg.MaxR:
		eq := (cfg.MinR + cfg.MaxR) / 2
		radial := (d - eq) * cfg.Strength * 0.1
		force = n.Mul(-radial)
		force[0] += -n.Y() * 0.02
		force[1] += n.X() * 0.02
	default:
		radial := (d - cfg.MaxR) * cfg.Strength * 0.5
		force = n.Mul(radial)
	}
	return force, damping
}

// Reset clears the fixed-step accumulator and the internal simulated
// clock, as if the simulator had just been constructed. Mode and
// repulsion config are left as the caller set them — spec.md's reset()
// scopes to lifecycle state, not control-surface settings.
func (s *Simulator) Reset() {
	s.accumulatorMS = 0
	s.simSeconds = 0
}
