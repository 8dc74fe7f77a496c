/*
Package train moves rigid bodies along a track.

The driver maps a scalar path time to a pose on the curve. Path time is a
fractional progress around the closed loop, in [0,1), advanced by the
application from frame to frame. There is no velocity or acceleration
model: the speed of a train is implied by how fast the caller advances
the time. A Clock helps with that, and a Consist derives the poses of
trailing cars from the pose of the head.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package train

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/frame"
	"github.com/npillmayer/railspline/spline"
	"github.com/npillmayer/railspline/track"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'railspline.train'
func tracer() tracing.Trace {
	return tracing.Select("railspline.train")
}

// Clearance is the height of a car's origin above the centerline, so that
// the body sits on top of the track rather than centered on it.
const Clearance = 2.5

// RigidPose is the placement of a rigid body following the track.
type RigidPose struct {
	Position mgl64.Vec3 // raised by the clearance
	YawDeg   float64
	PitchDeg float64
	Frame    frame.Frame
	U        float64 // global curve parameter, wrapped
}

// Transform returns the model transform of the pose.
func (p RigidPose) Transform() mgl64.Mat4 {
	return railspline.Placement(p.Position, p.YawDeg, p.PitchDeg)
}

func (p RigidPose) String() string {
	return fmt.Sprintf("u=%.4f %s yaw=%.2f pitch=%.2f", p.U,
		railspline.VString(p.Position), p.YawDeg, p.PitchDeg)
}

// Pose returns the pose of a rigid body at path time on the curve of
// family f through pts. It is a pure function of its arguments. Times
// outside [0,1) wrap around the loop.
func Pose(pts spline.Points, f spline.Family, time float64) (RigidPose, error) {
	s, err := spline.Evaluate(pts, f, time)
	if err != nil {
		return RigidPose{}, err
	}
	return poseOf(s, Clearance, frame.Yaw(s.Tangent)), nil
}

// MustPose is a helper which panics on errors.
func MustPose(pts spline.Points, f spline.Family, time float64) RigidPose {
	p, err := Pose(pts, f, time)
	if err != nil {
		panic(err)
	}
	return p
}

func poseOf(s spline.PathSample, clearance, yaw float64) RigidPose {
	return RigidPose{
		Position: s.Position.Add(railspline.WorldUp.Mul(clearance)),
		YawDeg:   yaw,
		PitchDeg: frame.Pitch(s.Orientation),
		Frame:    frame.New(s.Tangent, s.Orientation),
		U:        s.U,
	}
}

// === Driver ================================================================

// Driver follows a single train from frame to frame. Unlike Pose, it
// remembers the last good heading and keeps it over stretches where the
// curve has no direction, e.g. between coincident control points.
type Driver struct {
	Family    spline.Family
	Clearance float64
	ev        spline.Evaluator
	yaw       float64
	hasYaw    bool
}

// NewDriver creates a driver for curve family f with the default clearance.
func NewDriver(f spline.Family) *Driver {
	return &Driver{Family: f, Clearance: Clearance}
}

// Reset forgets the remembered heading.
func (d *Driver) Reset() {
	d.ev.Reset()
	d.hasYaw = false
}

// Pose returns the pose at path time.
func (d *Driver) Pose(pts spline.Points, time float64) (RigidPose, error) {
	if d.ev.Family != d.Family {
		d.ev = spline.Evaluator{Family: d.Family}
		d.hasYaw = false
	}
	s, err := d.ev.Evaluate(pts, time)
	if err != nil {
		return RigidPose{}, err
	}
	yaw, ok := frame.YawOK(s.Tangent)
	if ok {
		d.yaw, d.hasYaw = yaw, true
	} else if d.hasYaw {
		tracer().Debugf("train heading undefined at u = %.4f, keeping %.1f°", s.U, d.yaw)
		yaw = d.yaw
	}
	return poseOf(s, d.Clearance, yaw), nil
}

// PoseAtDistance returns the pose at arc length dist from the start of
// the loop, measured along the track geometry g. g must have been built
// from pts. Advancing dist at a constant rate moves the train at constant
// speed, independent of the spacing of control points.
func (d *Driver) PoseAtDistance(g *track.Geometry, pts spline.Points, dist float64) (RigidPose, error) {
	return d.Pose(pts, g.ParamAtDistance(dist))
}

// === Clock =================================================================

// Clock advances path time. Speed is path time per tick.
type Clock struct {
	Speed float64
	Time  float64
}

// SpeedFromDivisions returns the path time per frame of the train view
// application, which moves the train by 1/N/(divisions/40) every frame
// for n control points.
func SpeedFromDivisions(n, divisions int) float64 {
	if n <= 0 || divisions <= 0 {
		return 0
	}
	return 1 / float64(n) / (float64(divisions) / 40)
}

// Advance moves the clock by dt ticks and returns the new time, wrapped
// into [0,1).
func (c *Clock) Advance(dt float64) float64 {
	t := c.Time + c.Speed*dt
	if !railspline.IsFiniteFloat(t) {
		tracer().Errorf("clock: time not finite after advance by %g, keeping %g", dt, c.Time)
		return c.Time
	}
	c.Time = spline.Wrap(t)
	return c.Time
}
