// Package corebind wires components A-F into the single-threaded
// Coordinator a host embeds: push detector frames in on one side, call
// Tick once per render frame, and read back the committed interleaved
// particle buffer on the other (spec.md §6).
package corebind

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/particlebind/core/internal/config"
	"github.com/particlebind/core/internal/detection"
	"github.com/particlebind/core/internal/engine"
	"github.com/particlebind/core/internal/interpolate"
	"github.com/particlebind/core/internal/particlepool"
	"github.com/particlebind/core/internal/physics"
	"github.com/particlebind/core/internal/types"
)

// Re-exported detector-facing and control-surface types, so a host never
// needs to import internal/types or internal/physics directly.
type (
	TrackingFrame    = types.TrackingFrame
	HandObservation  = types.HandObservation
	FaceObservation  = types.FaceObservation
	Landmark         = types.Landmark
	Handedness       = types.Handedness
	Color            = types.Color
	ColorSet         = types.ColorSet
	Mode             = physics.Mode
)

const (
	HandednessLeft  = types.HandednessLeft
	HandednessRight = types.HandednessRight

	Attract = physics.Attract
	Repel   = physics.Repel
)

// CommittedBuffer is the canvas sink's read-only borrow of the pool's
// interleaved particle buffer after a Tick. It is only valid until the
// next Tick call — the Coordinator reuses the same backing array every
// commit (spec.md §5, zero-allocation steady state).
type CommittedBuffer struct {
	Floats     []float32
	Count      int
	Generation uint64
}

// Coordinator is the System Coordinator named in spec.md §2: the single
// cooperative task that owns every component and advances them together
// once per render tick. Not goroutine-safe — PushFrame and Tick must be
// serialized by the host (spec.md §5).
type Coordinator struct {
	id  uuid.UUID
	log engine.Logger

	clock  engine.Clock
	pool   *particlepool.Pool
	interp *interpolate.Interpolator
	detect *detection.StateMachine
	sim    *physics.Simulator

	colors types.ColorSet
	snappedToFirstFrame bool

	fadingScratch []bool
}

// New constructs a Coordinator from a configuration (config.Default() if
// cfg is nil) and an optional logger (engine.NewNopLogger() if log is
// nil). Construction is the one place a public operation on this module
// returns an error (spec.md §7): everywhere else the core is total.
func New(cfg *config.Config, log engine.Logger) (*Coordinator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("corebind: invalid configuration: %w", err)
	}
	if log == nil {
		log = engine.NewNopLogger()
	}

	id := uuid.New()
	log = log.WithField("coordinator", id.String())

	pool := particlepool.New(particlepool.Config{
		MaxParticles:     cfg.Pool.MaxParticles,
		BaseParticleSize: float32(cfg.Pool.BaseParticleSize),
		SizeVariance:     float32(cfg.Pool.SizeVariance),
	})
	pool.SetCanvasSize(float32(cfg.Canvas.WidthPx), float32(cfg.Canvas.HeightPx))

	sim := physics.New()
	sim.SetMode(parseMode(cfg.Physics.Mode))
	sim.SetRepulsionConfig(physics.RepulsionConfig{
		MinR:     float32(cfg.Physics.Repulsion.MinR),
		MaxR:     float32(cfg.Physics.Repulsion.MaxR),
		Strength: float32(cfg.Physics.Repulsion.Strength),
		Damping:  float32(cfg.Physics.Repulsion.Damping),
	})

	c := &Coordinator{
		id:     id,
		log:    log,
		pool:   pool,
		interp: interpolate.New(),
		detect: detection.New(),
		sim:    sim,
		colors: colorSetFromConfig(cfg),
		fadingScratch: make([]bool, pool.Allocated()),
	}
	c.log.Infof("constructed: %d particles, mode=%s", pool.Allocated(), cfg.Physics.Mode)
	return c, nil
}

func parseMode(s string) physics.Mode {
	if s == "repel" {
		return physics.Repel
	}
	return physics.Attract
}

func colorSetFromConfig(cfg *config.Config) types.ColorSet {
	toColor := func(rgb config.RGB) types.Color {
		return types.Color{R: float32(rgb[0]), G: float32(rgb[1]), B: float32(rgb[2])}
	}
	return types.ColorSet{
		LeftHand:  toColor(cfg.Colors.LeftHand),
		RightHand: toColor(cfg.Colors.RightHand),
		Face:      toColor(cfg.Colors.Face),
	}
}

// PushFrame hands a detector frame to the interpolator. The producer
// side of the single-writer/single-reader contract in spec.md §5.
func (c *Coordinator) PushFrame(f TrackingFrame) {
	c.interp.PushFrame(f)
}

// Tick advances the whole pipeline by one render frame: interpolates
// landmarks at nowMS, ticks the detection state machine, updates or
// freezes pool targets per entity, steps physics, and commits the
// interleaved buffer. nowMS is the explicit monotonic clock reading
// spec.md §6 requires — the core never calls time.Now() itself.
func (c *Coordinator) Tick(nowMS float64) CommittedBuffer {
	c.clock.Advance(nowMS)
	c.interp.GetInterpolated(nowMS)

	hand0 := c.interp.GetHandLandmarks(0)
	hand1 := c.interp.GetHandLandmarks(1)
	face := c.interp.GetFaceLandmarks()

	c.detect.Tick(nowMS, hand0.Visible, hand1.Visible, face.Visible)

	c.updateOrFreezeHand(0, hand0, detection.EntityHand0)
	c.updateOrFreezeHand(1, hand1, detection.EntityHand1)
	c.updateOrFreezeFace(face)

	if c.interp.Started() && !c.snappedToFirstFrame {
		c.pool.SnapToTargets()
		c.snappedToFirstFrame = true
		c.log.Debugf("snapped particles to first valid frame")
	}

	c.pool.FillFadingMask(c.fadingScratch,
		c.detect.IsFading(detection.EntityHand0),
		c.detect.IsFading(detection.EntityHand1),
		c.detect.IsFading(detection.EntityFace),
	)
	c.sim.Advance(c.clock.DtMS, c.pool.PhysicsArrays(), c.fadingScratch)

	c.pool.Commit()
	floats, count, generation := c.pool.Buffer()
	return CommittedBuffer{Floats: floats, Count: count, Generation: generation}
}

func (c *Coordinator) updateOrFreezeHand(slot int, view interpolate.HandView, entity detection.Entity) {
	alpha := c.detect.AlphaMultiplier(entity)
	if c.detect.ShouldUpdateTargets(entity) {
		c.pool.UpdateHandTargets(slot, *view.Landmarks, c.colorForHandedness(view.Handedness), alpha)
		return
	}
	c.pool.ApplyHandAlphaMultiplier(slot, alpha)
}

func (c *Coordinator) updateOrFreezeFace(view interpolate.FaceView) {
	alpha := c.detect.AlphaMultiplier(detection.EntityFace)
	if c.detect.ShouldUpdateTargets(detection.EntityFace) {
		c.pool.UpdateFaceTargets(*view.Landmarks, c.colors.Face, alpha)
		return
	}
	c.pool.ApplyFaceAlphaMultiplier(alpha)
}

func (c *Coordinator) colorForHandedness(h types.Handedness) types.Color {
	if h == types.HandednessLeft {
		return c.colors.LeftHand
	}
	return c.colors.RightHand
}

// SetPhysicsMode switches the simulator between Attract and Repel.
func (c *Coordinator) SetPhysicsMode(m Mode) {
	c.sim.SetMode(m)
	c.log.Infof("physics mode set to %v", m)
}

// SetColors replaces the theme colors used on the next target update
// for each entity (spec.md §3, "Base color assignment").
func (c *Coordinator) SetColors(cs ColorSet) {
	c.colors = cs
}

// SetCanvasSize updates the screen-coordinate reference used the next
// time a hand or face target is written.
func (c *Coordinator) SetCanvasSize(widthPx, heightPx int) {
	c.pool.SetCanvasSize(float32(widthPx), float32(heightPx))
	c.log.Debugf("canvas resized to %dx%d", widthPx, heightPx)
}

// ApplyImpulse nudges every currently visible particle's velocity by
// (fx, fy), for one-shot visual effects driven by the host.
func (c *Coordinator) ApplyImpulse(fx, fy float32) {
	c.sim.ApplyImpulse(c.pool.PhysicsArrays(), mgl32.Vec2{fx, fy})
}

// Reset returns every owned component to its just-constructed state,
// without reallocating the particle pool.
func (c *Coordinator) Reset() {
	c.pool.Reset()
	c.interp.Reset()
	c.detect.Reset()
	c.sim.Reset()
	c.clock.Reset()
	c.snappedToFirstFrame = false
	c.log.Infof("reset")
}

// ID returns the Coordinator's instance identifier, the same value
// stamped into every log line it emits. Useful for a host running more
// than one Coordinator (e.g. a multi-camera rig) to tell their logs
// apart.
func (c *Coordinator) ID() uuid.UUID { return c.id }
