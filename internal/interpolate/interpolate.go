// Package interpolate double-buffers detection frames and produces
// interpolated landmarks at arbitrary render timestamps, upsampling the
// detector's ~30 Hz cadence to the render loop's ~60 Hz without
// overshoot: interpolation is always clamped to [prev, curr], never
// extrapolated past curr (spec.md §4.D).
package interpolate

import "github.com/particlebind/core/internal/types"

const (
	handLandmarkCount = 21
	faceLandmarkCount = 468
	wristLandmark     = 0
)

// slotAssignment is the result of sorting zero, one, or two observed
// hands by wrist x into the two fixed entity slots.
type slotAssignment struct {
	present    [2]bool
	landmarks  [2][21]types.Landmark
	handedness [2]types.Handedness
}

// Interpolator holds the prev/curr buffers plus one reused output
// buffer. Single-writer (push_frame from the detection callback),
// single-reader (get_interpolated from the render tick) — see
// spec.md §5 for the concurrency model this assumes.
type Interpolator struct {
	started bool

	prevTS, currTS float64

	prevHand [2][21]types.Landmark
	currHand [2][21]types.Landmark
	prevFace [468]types.Landmark
	currFace [468]types.Landmark

	prevHandVisible [2]bool
	currHandVisible [2]bool
	prevFaceVisible bool
	currFaceVisible bool

	handedness [2]types.Handedness

	outHand [2][21]types.Landmark
	outFace [468]types.Landmark
}

// New returns an empty interpolator. PushFrame must be called at least
// once before GetInterpolated returns meaningful data.
func New() *Interpolator {
	return &Interpolator{}
}

// Started reports whether at least one frame has been pushed — used by
// the Coordinator to decide when to snap particles to their targets on
// the very first valid frame (spec.md §4.F).
func (ip *Interpolator) Started() bool { return ip.started }

// PushFrame consumes a tracking frame exactly once. A frame whose
// timestamp does not strictly advance past the current frame is
// dropped (duplicate or stale), making re-pushes idempotent (spec.md
// L1). Returns true if the frame was accepted.
func (ip *Interpolator) PushFrame(f types.TrackingFrame) bool {
	assign := stabilizeSlots(f.Hands, ip.currHand, ip.currHandVisible, ip.handedness)

	if !ip.started {
		ip.started = true
		ip.prevTS = f.TimestampMS
		ip.currTS = f.TimestampMS
		ip.prevHand = assign.landmarks
		ip.currHand = assign.landmarks
		ip.prevHandVisible = assign.present
		ip.currHandVisible = assign.present
		ip.handedness = assign.handedness
		ip.applyFace(f.Face, true)
		return true
	}

	if f.TimestampMS <= ip.currTS {
		return false
	}

	ip.prevTS = ip.currTS
	ip.currTS = f.TimestampMS
	ip.prevHand = ip.currHand
	ip.prevHandVisible = ip.currHandVisible
	ip.prevFace = ip.currFace
	ip.prevFaceVisible = ip.currFaceVisible

	ip.currHand = assign.landmarks
	ip.currHandVisible = assign.present
	ip.handedness = assign.handedness
	ip.applyFace(f.Face, false)

	return true
}

func (ip *Interpolator) applyFace(face *types.FaceObservation, first bool) {
	if face != nil {
		ip.currFace = face.Landmarks
		ip.currFaceVisible = true
		if first {
			ip.prevFace = face.Landmarks
			ip.prevFaceVisible = true
		}
		return
	}
	ip.currFaceVisible = false
	// Keep curr's landmark values as whatever curr already held (the
	// zero value on the very first frame); get_interpolated at t=0
	// still returns a defined, if invisible, position.
}

// stabilizeSlots sorts the observed hands by wrist x and routes them
// into the two fixed slots (spec.md §3, "Entity slot"). A slot with no
// observation copies the previous curr frame's landmarks with
// visibility forced false, so interpolation at t=0 holds the last
// known position.
func stabilizeSlots(hands []types.HandObservation, prevCurr [2][21]types.Landmark, prevVisible [2]bool, prevHandedness [2]types.Handedness) slotAssignment {
	var out slotAssignment
	out.landmarks = prevCurr
	out.handedness = prevHandedness

	switch len(hands) {
	case 0:
		// both slots inherit prevCurr, present stays false.
	case 1:
		h := hands[0]
		wristX := h.Landmarks[wristLandmark].X
		slot := 0
		if wristX >= 0.5 {
			slot = 1
		}
		out.present[slot] = true
		out.landmarks[slot] = h.Landmarks
		out.handedness[slot] = h.Handedness
	default:
		a, b := hands[0], hands[1]
		ax := a.Landmarks[wristLandmark].X
		bx := b.Landmarks[wristLandmark].X
		// Deterministic tiebreak on exact equality: keep input order
		// rather than re-deriving from the previous frame, since the
		// spec leaves the exact-crossover tiebreak as an implementer
		// choice (spec.md §9 Open Questions) and input order is the
		// simplest stable rule that never depends on history.
		if bx < ax {
			a, b = b, a
		}
		out.present[0], out.present[1] = true, true
		out.landmarks[0] = a.Landmarks
		out.landmarks[1] = b.Landmarks
		out.handedness[0] = a.Handedness
		out.handedness[1] = b.Handedness
	}
	return out
}

// HandView is a read-only view over one entity slot's interpolated
// landmarks.
type HandView struct {
	Landmarks  *[21]types.Landmark
	Visible    bool
	Handedness types.Handedness
}

// FaceView is the face analogue of HandView.
type FaceView struct {
	Landmarks *[468]types.Landmark
	Visible   bool
}

// GetInterpolated computes t = clamp((renderTS - currTS) / (currTS -
// prevTS), 0, 1) and linearly interpolates every float in both
// buffers into the reused output buffer. t is never allowed past 1:
// extrapolation overshoots on direction reversals (spec.md §4.D).
func (ip *Interpolator) GetInterpolated(renderTS float64) {
	dtFrame := ip.currTS - ip.prevTS
	var t float64
	if dtFrame > 0 {
		// elapsed = renderTS - currTS; t = elapsed/dtFrame clamped, so a
		// render at currTS shows prev and one frame gap later shows curr.
		t = clamp01((renderTS - ip.currTS) / dtFrame)
	} else {
		t = 1
	}

	for slot := 0; slot < 2; slot++ {
		for i := 0; i < handLandmarkCount; i++ {
			ip.outHand[slot][i] = lerpLandmark(ip.prevHand[slot][i], ip.currHand[slot][i], t)
		}
	}
	for i := 0; i < faceLandmarkCount; i++ {
		ip.outFace[i] = lerpLandmark(ip.prevFace[i], ip.currFace[i], t)
	}
}

func lerpLandmark(a, b types.Landmark, t float64) types.Landmark {
	return types.Landmark{
		X:          a.X + (b.X-a.X)*t,
		Y:          a.Y + (b.Y-a.Y)*t,
		Z:          a.Z + (b.Z-a.Z)*t,
		Visibility: a.Visibility + (b.Visibility-a.Visibility)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GetHandLandmarks returns a pre-allocated view of slot's interpolated
// landmarks, valid until the next PushFrame or GetInterpolated call.
func (ip *Interpolator) GetHandLandmarks(slot int) HandView {
	return HandView{
		Landmarks:  &ip.outHand[slot],
		Visible:    ip.currHandVisible[slot],
		Handedness: ip.handedness[slot],
	}
}

// GetFaceLandmarks is the face analogue of GetHandLandmarks.
func (ip *Interpolator) GetFaceLandmarks() FaceView {
	return FaceView{
		Landmarks: &ip.outFace,
		Visible:   ip.currFaceVisible,
	}
}

// Reset clears both buffers and returns the interpolator to its
// never-pushed state.
func (ip *Interpolator) Reset() {
	*ip = Interpolator{}
}
