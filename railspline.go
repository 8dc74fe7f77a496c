/*
Package railspline implements the curve and kinematics core of a train
simulation: a closed track defined by user-placed control points, spline
evaluation along it, and the placement of ties and train cars.

Numeric helpers and 3D vector utilities live in this package; the
sub-packages build on them:

	ctrlpt  - control points and the circular control point store
	spline  - linear, cardinal and B-spline evaluation
	frame   - local frames and yaw/pitch angles
	track   - track builder (centerline, rails, ties, arc length)
	train   - kinematic driver, consist of cars, train camera
	polygon - ground-plane footprints of the track
	config  - scene files with environment overrides

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package railspline

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'railspline'
func tracer() tracing.Trace {
	return tracing.Select("railspline")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = math.Pi / 180

// Rad2Deg converts from RAD to DEG.
var Rad2Deg float64 = 180 / math.Pi

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// IsFiniteFloat is a predicate: is n neither NaN nor ±Inf?
func IsFiniteFloat(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// Clamp1 clamps a cosine value to [-1,1]. Dot products of unit vectors
// overshoot by a few ulps now and then.
func Clamp1(c float64) float64 {
	if math.IsNaN(c) {
		tracer().Errorf("clamping NaN cosine to 1")
		return 1
	}
	return mgl64.Clamp(c, -1, 1)
}

// SafeAcos is math.Acos on a clamped argument. It never returns NaN.
func SafeAcos(c float64) float64 {
	return math.Acos(Clamp1(c))
}

// === Vectors ===============================================================

// WorldUp is the Y axis, the "up" reference of the scene.
var WorldUp = mgl64.Vec3{0, 1, 0}

// WorldRight is the X axis, the zero-yaw reference direction.
var WorldRight = mgl64.Vec3{1, 0, 0}

// Origin represents the frequently used constant (0,0,0).
var Origin = mgl64.Vec3{0, 0, 0}

// V is a quick notation for constructing a 3-vector from floats.
func V(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, z}
}

// IsFinite is a predicate: are all components of v finite?
func IsFinite(v mgl64.Vec3) bool {
	return IsFiniteFloat(v[0]) && IsFiniteFloat(v[1]) && IsFiniteFloat(v[2])
}

// Unit returns v normalized to unit length. If v is too short to be
// normalized (or not finite), Unit returns fallback and false.
func Unit(v mgl64.Vec3, fallback mgl64.Vec3) (mgl64.Vec3, bool) {
	if !IsFinite(v) {
		return fallback, false
	}
	l := v.Len()
	if l <= Epsilon {
		return fallback, false
	}
	return v.Mul(1 / l), true
}

// ZapV rounds all components of v to Epsilon.
func ZapV(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{Zap(v[0]), Zap(v[1]), Zap(v[2])}
}

// EqualV compares two vectors component-wise within Epsilon.
func EqualV(a, b mgl64.Vec3) bool {
	return Is0(a[0]-b[0]) && Is0(a[1]-b[1]) && Is0(a[2]-b[2])
}

// Lerp interpolates linearly between a (t=0) and b (t=1).
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Blend4 returns the weighted sum w[0]·p[0] + … + w[3]·p[3].
func Blend4(p [4]mgl64.Vec3, w [4]float64) mgl64.Vec3 {
	var r mgl64.Vec3
	for i := 0; i < 4; i++ {
		r = r.Add(p[i].Mul(w[i]))
	}
	return r
}

// Distance returns |b - a|.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// VString is a pretty Stringer for 3-vectors.
func VString(v mgl64.Vec3) string {
	return fmt.Sprintf("(%g,%g,%g)", v[0], v[1], v[2])
}

// === Placement Transforms ==================================================

// Placement returns the model transform for an object sitting at pos,
// turned by yaw degrees around the Y axis and then tilted by pitch degrees
// around its local X axis. This is the transform a renderer applies to a
// tie or a train car model.
func Placement(pos mgl64.Vec3, yawDeg, pitchDeg float64) mgl64.Mat4 {
	T := mgl64.Translate3D(pos[0], pos[1], pos[2])
	Ry := mgl64.HomogRotate3DY(yawDeg * Deg2Rad)
	Rx := mgl64.HomogRotate3DX(pitchDeg * Deg2Rad)
	return T.Mul4(Ry).Mul4(Rx)
}

// TransformPoint transforms a model-space point. The argument is unchanged
// and a new vector is returned.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDir transforms a direction (no translation).
func TransformDir(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
