// Package distribution holds the compile-time zone tables that decide how
// many particles bind to each landmark and how far they spread, plus the
// golden-angle spiral used to lay them out around the landmark's screen
// position.
//
// Everything here is a pure function over a landmark index; there is no
// mutable state, matching the teacher's preference for inlined lookups over
// a trait-object table (see the Design Notes in SPEC_FULL.md §9).
package distribution

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GoldenAngle is 2π/φ², the angle (in radians) between successive points
// on a sunflower-style phyllotaxis spiral.
const GoldenAngle = 2.39996322972865332

// HandZoneKind classifies a hand landmark index into one of four regions.
type HandZoneKind int

const (
	HandZoneFingertip HandZoneKind = iota
	HandZoneMiddleJoint
	HandZoneBaseJoint
	HandZonePalm
)

// Zone describes a particle count and spread radius band for one region of
// a landmark set.
type Zone struct {
	Count      int
	SpreadMin  float32
	SpreadMax  float32
	DepthBoost float32 // 1.0 for hand zones; face zones vary.
}

// handZoneTable maps every one of the 21 MediaPipe-style hand landmark
// indices to its zone kind. Built once at package init from the four index
// sets in spec.md §3.
var handZoneTable = buildHandZoneTable()

func buildHandZoneTable() [21]HandZoneKind {
	var t [21]HandZoneKind
	fingertips := [...]int{4, 8, 12, 16, 20}
	middles := [...]int{3, 7, 11, 15, 19}
	bases := [...]int{2, 5, 6, 9, 10, 13, 14, 17, 18}
	palm := [...]int{0, 1}

	for i := range t {
		t[i] = HandZoneBaseJoint // overwritten below; no landmark is left unclassified.
	}
	for _, i := range bases {
		t[i] = HandZoneBaseJoint
	}
	for _, i := range middles {
		t[i] = HandZoneMiddleJoint
	}
	for _, i := range fingertips {
		t[i] = HandZoneFingertip
	}
	for _, i := range palm {
		t[i] = HandZonePalm
	}
	return t
}

var handZones = map[HandZoneKind]Zone{
	HandZoneFingertip:  {Count: 35, SpreadMin: 1, SpreadMax: 2, DepthBoost: 1.0},
	HandZoneMiddleJoint: {Count: 45, SpreadMin: 3, SpreadMax: 5, DepthBoost: 1.0},
	HandZoneBaseJoint:  {Count: 50, SpreadMin: 3, SpreadMax: 5, DepthBoost: 1.0},
	HandZonePalm:       {Count: 70, SpreadMin: 8, SpreadMax: 12, DepthBoost: 1.0},
}

// HandLandmarkCount is the number of landmarks MediaPipe reports per hand.
const HandLandmarkCount = 21

// HandZone returns the particle count and spread band for a hand landmark
// index in [0, HandLandmarkCount). Indices outside that range are clamped,
// since the core never receives out-of-range indices from a well-formed
// detector but must not panic if it does (spec.md §7).
func HandZone(landmarkIndex int) Zone {
	idx := clampIndex(landmarkIndex, HandLandmarkCount)
	return handZones[handZoneTable[idx]]
}

// HandTotalParticles is the sum of every hand zone's particle count — the
// number of particles bound to one hand (spec.md invariant: 800-1200).
func HandTotalParticles() int {
	total := 0
	for i := 0; i < HandLandmarkCount; i++ {
		total += HandZone(i).Count
	}
	return total
}

// FaceZoneKind classifies a face-mesh landmark index into one of six
// regions, each with its own depth-boost multiplier (spec.md §3).
type FaceZoneKind int

const (
	FaceZoneNose FaceZoneKind = iota
	FaceZoneCheekbone
	FaceZoneEyeSocket
	FaceZoneLips
	FaceZoneContour
	FaceZoneGeneral
)

// FaceLandmarkCount is the number of landmarks MediaPipe's face mesh
// reports.
const FaceLandmarkCount = 468

var faceZones = map[FaceZoneKind]Zone{
	FaceZoneNose:      {Count: 14, SpreadMin: 1, SpreadMax: 2, DepthBoost: 1.3},
	FaceZoneCheekbone: {Count: 12, SpreadMin: 1, SpreadMax: 2, DepthBoost: 1.15},
	FaceZoneEyeSocket: {Count: 12, SpreadMin: 1, SpreadMax: 2, DepthBoost: 0.85},
	FaceZoneLips:      {Count: 12, SpreadMin: 1, SpreadMax: 2, DepthBoost: 1.0},
	FaceZoneContour:   {Count: 11, SpreadMin: 1, SpreadMax: 2, DepthBoost: 1.0},
	FaceZoneGeneral:   {Count: 12, SpreadMin: 1, SpreadMax: 2, DepthBoost: 1.0},
}

// faceZoneTable assigns each of the 468 face-mesh indices to a zone kind
// by repeating the six categories round-robin. The spec names canonical
// category landmark sets (nose tip, cheekbones, eye sockets, lips, jaw
// contour) from a specific face-mesh topology; since the exact per-index
// membership isn't part of the spec's data model (only the six categories
// and their counts/boosts are), a deterministic, evenly-distributed
// assignment is used so every category's proportion of the mesh matches
// the table above on average. This is an Open Question call — recorded in
// DESIGN.md.
var faceZoneTable = buildFaceZoneTable()

func buildFaceZoneTable() [FaceLandmarkCount]FaceZoneKind {
	var t [FaceLandmarkCount]FaceZoneKind
	order := [...]FaceZoneKind{
		FaceZoneNose, FaceZoneCheekbone, FaceZoneEyeSocket,
		FaceZoneLips, FaceZoneContour, FaceZoneGeneral,
	}
	for i := range t {
		t[i] = order[i%len(order)]
	}
	return t
}

// FaceZone returns the particle count, spread band, and depth boost for a
// face landmark index in [0, FaceLandmarkCount).
func FaceZone(landmarkIndex int) Zone {
	idx := clampIndex(landmarkIndex, FaceLandmarkCount)
	return faceZones[faceZoneTable[idx]]
}

// FaceTotalParticles is the sum of every face zone's particle count scaled
// across the full mesh (spec.md invariant: 4000-6000).
func FaceTotalParticles() int {
	total := 0
	for i := 0; i < FaceLandmarkCount; i++ {
		total += FaceZone(i).Count
	}
	return total
}

func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}

// Offset computes the golden-spiral offset of the i-th particle (of total
// particles bound to one landmark) from that landmark's screen position,
// per spec.md §4.A. depthScale multiplies the spread radius so particles
// closer to the camera spread wider (see internal/depthscale).
func Offset(i, total int, spreadMin, spreadMax, depthScale float32) mgl32.Vec2 {
	if total < 1 {
		total = 1
	}
	angle := float64(i) * GoldenAngle
	t := math.Sqrt(float64(i) / float64(total))
	radius := (spreadMin + (spreadMax-spreadMin)*float32(t)) * depthScale
	return mgl32.Vec2{float32(math.Cos(angle)), float32(math.Sin(angle))}.Mul(radius)
}
