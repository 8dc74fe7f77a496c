// Package ctrlpt holds the control points of a closed track.
//
// A track is a cyclic sequence of control points. Each point carries a
// position and an "up" hint used for banking. Index arithmetic always wraps
// modulo the number of points.
//
// The Store is mutated by the editing layer (dragging points around) and
// is not synchronized. Evaluation code should work on a Snapshot, taken
// while no edit is in progress.
package ctrlpt

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'railspline.ctrlpt'
func tracer() tracing.Trace {
	return tracing.Select("railspline.ctrlpt")
}

// MinPoints is the minimum number of control points for spline evaluation.
// Every spline segment reads four consecutive points.
const MinPoints = 4

var (
	// ErrTooFewPoints indicates a control point set with less than MinPoints points.
	ErrTooFewPoints = errors.New("too few control points")
	// ErrInvalidPoint indicates a control point coordinate containing NaN/Inf.
	ErrInvalidPoint = errors.New("invalid control point coordinate")
	// ErrIndexOutOfRange indicates an edit operation on a non-existing point.
	ErrIndexOutOfRange = errors.New("control point index out of range")
)

// ControlPoint is a user-placed waypoint of the track.
//
// Orient is a free "up" hint. It is not guaranteed to be of unit length,
// nor orthogonal to the track; consumers have to re-normalize it.
type ControlPoint struct {
	Pos    mgl64.Vec3
	Orient mgl64.Vec3
}

// CP is a quick notation for constructing a control point.
func CP(pos, orient mgl64.Vec3) ControlPoint {
	return ControlPoint{Pos: pos, Orient: orient}
}

func (cp ControlPoint) String() string {
	return ptstring(cp)
}

// Store is the ordered, circular sequence of control points owned by a
// track. Every edit bumps the store's version.
type Store struct {
	points  []ControlPoint
	version uint64
}

// Snapshot is an immutable copy of a store's control points, valid for one
// evaluation pass.
type Snapshot struct {
	points  []ControlPoint
	version uint64
}

// N returns the number of control points.
func (s Snapshot) N() int {
	return len(s.points)
}

// Version returns the store version the snapshot was taken from.
func (s Snapshot) Version() uint64 {
	return s.version
}

// At returns control point (i mod N). Negative indices wrap as well.
// An empty snapshot returns the zero control point.
func (s Snapshot) At(i int) ControlPoint {
	if len(s.points) == 0 {
		return ControlPoint{}
	}
	return s.points[wrap(i, len(s.points))]
}

// Window returns the four consecutive control points side, side+1, side+2,
// side+3 (mod N), which span spline segment side.
func (s Snapshot) Window(side int) [4]ControlPoint {
	var w [4]ControlPoint
	for k := 0; k < 4; k++ {
		w[k] = s.At(side + k)
	}
	return w
}

// Points returns a copy of the control points.
func (s Snapshot) Points() []ControlPoint {
	return append([]ControlPoint(nil), s.points...)
}

// Validate checks if a snapshot is usable for spline evaluation.
func (s Snapshot) Validate() error {
	return validate(s.points)
}

func validate(points []ControlPoint) error {
	if len(points) < MinPoints {
		return fmt.Errorf("%w: need at least %d, got %d", ErrTooFewPoints, MinPoints, len(points))
	}
	for i, cp := range points {
		if !railspline.IsFinite(cp.Pos) || !railspline.IsFinite(cp.Orient) {
			return fmt.Errorf("%w at point %d", ErrInvalidPoint, i)
		}
	}
	return nil
}

// wrap reduces i to [0,n), n > 0.
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
