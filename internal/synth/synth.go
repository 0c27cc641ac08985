// Package synth generates synthetic TrackingFrame sequences in pure Go,
// standing in for a real landmark detector. Used by the CLI demo to
// drive the Coordinator end to end without a camera (spec.md §1 places detector/capture out of scope; camera
// capture is one of the teacher's pack deps this module intentionally
// does not wire — see DESIGN.md).
package synth

import (
	"math"

	"github.com/particlebind/core/internal/types"
)

// HandOrbit drives one synthetic hand around a circular path in
// normalized [0,1] screen space, at a fixed angular rate.
type HandOrbit struct {
	CenterX, CenterY float64
	Radius           float64
	PeriodMS         float64
	Handedness       types.Handedness
}

// Generator produces deterministic synthetic tracking frames at a fixed
// cadence, seeded only by elapsed time — never by a random source — so
// a recorded demo run reproduces identically.
type Generator struct {
	hands      []HandOrbit
	face       *FaceBob
	cadenceMS  float64
	lastEmitMS float64
	started    bool
}

// FaceBob drives a synthetic face gently bobbing in place.
type FaceBob struct {
	CenterX, CenterY float64
	AmplitudeX       float64
	AmplitudeY       float64
	PeriodMS         float64
}

// NewGenerator builds a generator emitting a frame every cadenceMS of
// simulated time (30Hz -> cadenceMS ~= 33.3, matching a typical
// detector's cadence per spec.md §4.D).
func NewGenerator(cadenceMS float64, hands []HandOrbit, face *FaceBob) *Generator {
	return &Generator{hands: hands, face: face, cadenceMS: cadenceMS}
}

// Frame returns the synthetic tracking frame for time nowMS, reporting
// whether a new frame was due (false means the caller should keep
// using the previously pushed frame, since the detector hasn't produced
// a fresh sample yet at this cadence).
func (g *Generator) Frame(nowMS float64) (types.TrackingFrame, bool) {
	if !g.started {
		g.started = true
		g.lastEmitMS = nowMS
	} else if nowMS-g.lastEmitMS < g.cadenceMS {
		return types.TrackingFrame{}, false
	} else {
		g.lastEmitMS = nowMS
	}

	f := types.TrackingFrame{TimestampMS: nowMS}
	for _, h := range g.hands {
		f.Hands = append(f.Hands, synthesizeHand(h, nowMS))
	}
	if g.face != nil {
		face := synthesizeFace(*g.face, nowMS)
		f.Face = &face
	}
	return f, true
}

func synthesizeHand(o HandOrbit, nowMS float64) types.HandObservation {
	angle := 2 * math.Pi * nowMS / o.PeriodMS
	wristX := o.CenterX + o.Radius*math.Cos(angle)
	wristY := o.CenterY + o.Radius*math.Sin(angle)

	var obs types.HandObservation
	obs.Handedness = o.Handedness
	for i := range obs.Landmarks {
		// Spread the 21 landmarks out from the wrist by a small,
		// index-dependent offset so they aren't all coincident — a
		// believable (if not anatomically exact) synthetic hand shape.
		spread := float64(i) * 0.003
		obs.Landmarks[i] = types.Landmark{
			X:          clampUnit(wristX + spread),
			Y:          clampUnit(wristY + spread*0.5),
			Z:          -0.05 + 0.02*math.Sin(angle+float64(i)),
			Visibility: 1,
		}
	}
	return obs
}

func synthesizeFace(b FaceBob, nowMS float64) types.FaceObservation {
	angle := 2 * math.Pi * nowMS / b.PeriodMS
	cx := b.CenterX + b.AmplitudeX*math.Cos(angle)
	cy := b.CenterY + b.AmplitudeY*math.Sin(angle)

	var obs types.FaceObservation
	for i := range obs.Landmarks {
		spread := float64(i) * 0.0002
		obs.Landmarks[i] = types.Landmark{
			X:          clampUnit(cx + spread),
			Y:          clampUnit(cy + spread*0.5),
			Z:          -0.02,
			Visibility: 1,
		}
	}
	return obs
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
