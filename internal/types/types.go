// Package types holds the small data shapes shared across the core's
// components: landmarks, tracking frames, colors. Keeping them in one
// leaf package avoids import cycles between the pool, interpolator,
// detection, and physics packages, which all need to agree on the same
// on-the-wire shapes without depending on each other.
package types

// Handedness labels a hand observation as reported by the detector.
type Handedness int

const (
	HandednessLeft Handedness = iota
	HandednessRight
)

// LandmarkKind distinguishes a particle's binding target.
type LandmarkKind int

const (
	LandmarkHand LandmarkKind = iota
	LandmarkFace
)

// Landmark is a normalized 3-D point with visibility, per spec.md §3.
// x and y are normalized camera coordinates in [0,1]; z is nominally in
// [-0.3, 0.3], depth relative to a reference landmark, negative values
// closer to the camera.
type Landmark struct {
	X, Y, Z    float64
	Visibility float64
}

// HandObservation is one detected hand: 21 landmarks and a handedness
// label.
type HandObservation struct {
	Landmarks  [21]Landmark
	Handedness Handedness
}

// FaceObservation is one detected face mesh: 468 landmarks.
type FaceObservation struct {
	Landmarks [468]Landmark
}

// TrackingFrame is what the external detector produces at ~30 Hz.
// Hands holds zero, one, or two observations; Face is nil when no face
// is detected. TimestampMS must be monotonically non-decreasing across
// successive frames fed to the same interpolator.
type TrackingFrame struct {
	Hands       []HandObservation
	Face        *FaceObservation
	TimestampMS float64
}

// Color is a normalized RGB triple in [0,1].
type Color struct {
	R, G, B float32
}

// ColorSet is the three colors the pool paints particles with: one per
// hand handedness label (Left/Right, whichever slot the hand is in), one
// for the face. Assigned per-frame so theme changes take
// effect immediately (spec.md §3, "Base color assignment").
type ColorSet struct {
	LeftHand  Color
	RightHand Color
	Face      Color
}
