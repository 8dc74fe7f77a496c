package ctrlpt

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
)

// Nulltrack creates an empty store, to be extended by subsequent builder
// calls. The following example builds a square loop of four points:
//
//	store := Nulltrack().
//	    Point(V(0,0,0), up).Point(V(10,0,0), up).
//	    Point(V(10,0,10), up).Point(V(0,0,10), up)
//
// The loop is always closed; there is no need to repeat the first point.
func Nulltrack() *Store {
	return &Store{}
}

// FromPoints creates a store holding a copy of points.
func FromPoints(points []ControlPoint) *Store {
	return &Store{points: append([]ControlPoint(nil), points...)}
}

// DefaultLoop returns the four-point square loop a fresh scene starts with.
func DefaultLoop() *Store {
	up := railspline.WorldUp
	return Nulltrack().
		Point(railspline.V(50, 5, 0), up).
		Point(railspline.V(0, 5, 50), up).
		Point(railspline.V(-50, 5, 0), up).
		Point(railspline.V(0, 5, -50), up)
}

// Point appends a control point. Part of builder functionality.
func (s *Store) Point(pos, orient mgl64.Vec3) *Store {
	s.points = append(s.points, CP(pos, orient))
	s.version++
	return s
}

// N returns the number of control points.
func (s *Store) N() int {
	return len(s.points)
}

// Version is incremented on every edit.
func (s *Store) Version() uint64 {
	return s.version
}

// At returns control point (i mod N). An empty store returns the zero
// control point.
func (s *Store) At(i int) ControlPoint {
	if len(s.points) == 0 {
		return ControlPoint{}
	}
	return s.points[wrap(i, len(s.points))]
}

// Points returns a copy of the control points.
func (s *Store) Points() []ControlPoint {
	return append([]ControlPoint(nil), s.points...)
}

// Snapshot copies the current control points for an evaluation pass.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{points: s.Points(), version: s.version}
}

// Validate checks if the store is usable for spline evaluation.
func (s *Store) Validate() error {
	return validate(s.points)
}

// Move repositions control point i, as done by a drag gesture.
func (s *Store) Move(i int, pos mgl64.Vec3) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.points[i].Pos = pos
	s.version++
	tracer().Debugf("moved point %d to %s", i, railspline.VString(pos))
	return nil
}

// Orient sets the up hint of control point i.
func (s *Store) Orient(i int, up mgl64.Vec3) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.points[i].Orient = up
	s.version++
	return nil
}

// Insert adds a control point after point index after. Use after = -1 to
// insert in front of the first point.
func (s *Store) Insert(after int, cp ControlPoint) error {
	if after < -1 || after >= len(s.points) {
		return fmt.Errorf("%w: insert after %d of %d", ErrIndexOutOfRange, after, len(s.points))
	}
	at := after + 1
	s.points = append(s.points, ControlPoint{})
	copy(s.points[at+1:], s.points[at:])
	s.points[at] = cp
	s.version++
	return nil
}

// Delete removes control point i. The store will not go below MinPoints.
func (s *Store) Delete(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if len(s.points) <= MinPoints {
		return fmt.Errorf("%w: cannot delete from %d points", ErrTooFewPoints, len(s.points))
	}
	s.points = append(s.points[:i], s.points[i+1:]...)
	s.version++
	return nil
}

func (s *Store) check(i int) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.points))
	}
	return nil
}
