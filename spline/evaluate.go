package spline

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/ctrlpt"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'railspline.spline'
func tracer() tracing.Trace {
	return tracing.Select("railspline.spline")
}

var (
	// ErrDegenerateControlSet indicates a control point set spline evaluation is undefined for.
	ErrDegenerateControlSet = errors.New("degenerate control point set")
	// ErrInvalidParameter indicates a NaN or infinite curve parameter.
	ErrInvalidParameter = errors.New("invalid curve parameter")
	// ErrUnknownFamily indicates an unknown curve family.
	ErrUnknownFamily = errors.New("unknown curve family")
)

// Points is what the evaluator reads control points from. Both
// *ctrlpt.Store and ctrlpt.Snapshot satisfy it. At must wrap indices
// modulo N.
type Points interface {
	N() int
	At(int) ctrlpt.ControlPoint
}

// PathSample is the curve evaluated at a global parameter U.
type PathSample struct {
	U           float64    // global parameter, wrapped into [0,1)
	Side        int        // segment index
	T           float64    // local parameter within segment
	Position    mgl64.Vec3 // point on the curve
	Orientation mgl64.Vec3 // interpolated up hint, unit length
	Tangent     mgl64.Vec3 // unit tangent
	Derivative  mgl64.Vec3 // raw d/dt, not normalized
	Degenerate  bool       // tangent had to be substituted
}

// Locate maps a global parameter to segment index and local parameter for
// n control points. u is wrapped into [0,1) first, as the track is a closed
// loop.
func Locate(n int, u float64) (side int, t float64, err error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("%w: no control points", ErrDegenerateControlSet)
	}
	if !railspline.IsFiniteFloat(u) {
		return 0, 0, fmt.Errorf("%w: u = %g", ErrInvalidParameter, u)
	}
	u = Wrap(u)
	x := u * float64(n)
	side = int(math.Floor(x))
	t = x - float64(side)
	if side >= n { // u·n rounded up to n
		side, t = n-1, 1
	}
	return side, t, nil
}

// Wrap reduces u to [0,1).
func Wrap(u float64) float64 {
	u -= math.Floor(u)
	if u >= 1 {
		u = 0
	}
	return u
}

// Evaluate computes position, orientation and tangent of the curve at
// global parameter u. It fails for less than ctrlpt.MinPoints control
// points. Degenerate tangents are replaced by a fallback direction and
// flagged in the sample.
func Evaluate(pts Points, f Family, u float64) (PathSample, error) {
	var ev Evaluator
	ev.Family = f
	return ev.Evaluate(pts, u)
}

// EvaluateSegment evaluates segment side at local parameter t ∈ [0,1].
func EvaluateSegment(pts Points, f Family, side int, t float64) (PathSample, error) {
	var ev Evaluator
	ev.Family = f
	return ev.EvaluateSegment(pts, side, t)
}

// MustEvaluate is a helper which panics on errors. Intended for tests and
// for control point sets already validated.
func MustEvaluate(pts Points, f Family, u float64) PathSample {
	s, err := Evaluate(pts, f, u)
	if err != nil {
		panic(err)
	}
	return s
}

// Evaluator evaluates a curve family and remembers the last non-degenerate
// tangent, which it substitutes for a zero-length tangent. Use one
// evaluator per pass along the track; the zero value is ready to use once
// Family is set.
type Evaluator struct {
	Family  Family
	last    mgl64.Vec3
	hasLast bool
}

// Reset forgets the remembered tangent.
func (ev *Evaluator) Reset() {
	ev.hasLast = false
}

// Evaluate evaluates the curve at global parameter u.
func (ev *Evaluator) Evaluate(pts Points, u float64) (PathSample, error) {
	if err := checkPoints(pts); err != nil {
		return PathSample{}, err
	}
	side, t, err := Locate(pts.N(), u)
	if err != nil {
		return PathSample{}, err
	}
	s := ev.sample(pts, side, t)
	s.U = Wrap(u)
	return s, nil
}

// EvaluateSegment evaluates segment side (mod N) at local parameter t.
func (ev *Evaluator) EvaluateSegment(pts Points, side int, t float64) (PathSample, error) {
	if err := checkPoints(pts); err != nil {
		return PathSample{}, err
	}
	if !railspline.IsFiniteFloat(t) {
		return PathSample{}, fmt.Errorf("%w: t = %g", ErrInvalidParameter, t)
	}
	n := pts.N()
	side %= n
	if side < 0 {
		side += n
	}
	t = mgl64.Clamp(t, 0, 1)
	s := ev.sample(pts, side, t)
	s.U = Wrap((float64(side) + t) / float64(n))
	return s, nil
}

func checkPoints(pts Points) error {
	if pts == nil {
		return fmt.Errorf("%w: nil control points", ErrDegenerateControlSet)
	}
	if n := pts.N(); n < ctrlpt.MinPoints {
		return fmt.Errorf("%w: %w: need at least %d, got %d", ErrDegenerateControlSet,
			ctrlpt.ErrTooFewPoints, ctrlpt.MinPoints, n)
	}
	return nil
}

func (ev *Evaluator) sample(pts Points, side int, t float64) PathSample {
	var pos, orient [4]mgl64.Vec3
	for k := 0; k < 4; k++ {
		cp := pts.At(side + k)
		pos[k], orient[k] = cp.Pos, cp.Orient
	}
	f := ev.Family
	if !f.Valid() {
		tracer().Errorf("unknown curve family %d, using linear", f)
		f = Linear
	}
	w := Weights(f, t)
	dw := DerivWeights(f, t)
	s := PathSample{
		Side:       side,
		T:          t,
		Position:   railspline.Blend4(pos, w),
		Derivative: railspline.Blend4(pos, dw),
	}
	var ok bool
	s.Orientation, ok = railspline.Unit(railspline.Blend4(orient, w), railspline.WorldUp)
	if !ok {
		tracer().Debugf("zero orientation at segment %d, t = %.4f", side, t)
	}
	s.Tangent, ok = railspline.Unit(s.Derivative, railspline.Origin)
	if ok {
		ev.last, ev.hasLast = s.Tangent, true
	} else {
		s.Tangent = ev.fallback(pos)
		s.Degenerate = true
		tracer().Debugf("degenerate tangent at segment %d, t = %.4f, using %s",
			side, t, railspline.VString(s.Tangent))
	}
	return s
}

// fallback finds a substitute for a zero-length tangent: the previous good
// tangent, else the first non-degenerate chord of the window, else the X axis.
func (ev *Evaluator) fallback(pos [4]mgl64.Vec3) mgl64.Vec3 {
	if ev.hasLast {
		return ev.last
	}
	for _, k := range [3]int{1, 2, 0} {
		if chord, ok := railspline.Unit(pos[k+1].Sub(pos[k]), railspline.Origin); ok {
			return chord
		}
	}
	return railspline.WorldRight
}
