// Package frame computes local frames and placement angles for objects
// sitting on the track.
//
// Angles follow the convention of a right-handed, Y-up renderer: yaw turns
// around the Y axis, a positive yaw rotating +X toward −Z; pitch then tilts
// the object around its local X axis.
package frame

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'railspline.frame'
func tracer() tracing.Trace {
	return tracing.Select("railspline.frame")
}

// Frame is a right-handed local frame along the track.
type Frame struct {
	Tangent  mgl64.Vec3 // direction of travel
	Normal   mgl64.Vec3 // "up", orthogonal to the tangent
	Binormal mgl64.Vec3 // to the right of the direction of travel
}

// New builds a frame from a tangent and an up hint. Neither needs to be of
// unit length; the up hint need not be orthogonal to the tangent.
//
//	Binormal = unit(Tangent × Up),  Normal = Binormal × Tangent
//
// If the tangent is parallel to the up hint, the binormal is taken as the
// horizontal perpendicular of the tangent.
func New(tangent, up mgl64.Vec3) Frame {
	T, ok := railspline.Unit(tangent, railspline.WorldRight)
	if !ok {
		tracer().Debugf("frame: zero tangent, using X axis")
	}
	U, _ := railspline.Unit(up, railspline.WorldUp)
	B, ok := railspline.Unit(T.Cross(U), railspline.Origin)
	if !ok {
		B, ok = railspline.Unit(T.Cross(railspline.WorldUp), railspline.Origin)
		if !ok { // vertical tangent
			B = mgl64.Vec3{0, 0, 1}
		}
	}
	return Frame{
		Tangent:  T,
		Normal:   B.Cross(T),
		Binormal: B,
	}
}

// Offset moves p sideways along the binormal and upwards along the normal.
// Parallel rails are centerline points offset by ±gauge.
func (f Frame) Offset(p mgl64.Vec3, lateral, vertical float64) mgl64.Vec3 {
	return p.Add(f.Binormal.Mul(lateral)).Add(f.Normal.Mul(vertical))
}

// Yaw returns the heading of a tangent in degrees: the signed angle of its
// XZ projection from the X axis, in (−180,180]. Vertical tangents have
// yaw 0.
func Yaw(tangent mgl64.Vec3) float64 {
	y, _ := YawOK(tangent)
	return y
}

// YawOK is Yaw, additionally reporting whether the tangent had a usable
// horizontal component.
func YawOK(tangent mgl64.Vec3) (float64, bool) {
	x, z := tangent[0], tangent[2]
	if !railspline.IsFiniteFloat(x) || !railspline.IsFiniteFloat(z) {
		return 0, false
	}
	if math.Hypot(x, z) <= railspline.Epsilon {
		return 0, false
	}
	nz := -z
	if nz == 0 { // −0 would turn 180° into −180°
		nz = 0
	}
	return math.Atan2(nz, x) * railspline.Rad2Deg, true
}

// Pitch returns the angle in degrees between the up hint and the world up
// axis, in [0,180].
//
// BUG(norbert@pillmayer.com): Pitch is unsigned: tilting the up hint toward
// +Z and toward −Z yield the same angle. Up hints are assumed to point
// upwards and to bank only slightly.
func Pitch(orient mgl64.Vec3) float64 {
	U, ok := railspline.Unit(orient, railspline.WorldUp)
	if !ok {
		return 0
	}
	return railspline.SafeAcos(U.Dot(railspline.WorldUp)) * railspline.Rad2Deg
}

// Angles returns yaw and pitch (degrees) for an object with the given
// tangent and up hint.
func Angles(tangent, orient mgl64.Vec3) (yaw, pitch float64) {
	return Yaw(tangent), Pitch(orient)
}

// Placement returns the model transform for an object at pos oriented
// along tangent and orient.
func Placement(pos, tangent, orient mgl64.Vec3) mgl64.Mat4 {
	yaw, pitch := Angles(tangent, orient)
	return railspline.Placement(pos, yaw, pitch)
}
