package train

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/spline"
	"github.com/npillmayer/railspline/track"
)

// Consist is a train of cars. The head car runs at the path time, each
// following car trails its predecessor by Spacing units of arc length.
type Consist struct {
	Cars    int
	Spacing float64
}

// Poses returns the poses of all cars at path time, head car first.
// g must have been built from pts.
func (c Consist) Poses(g *track.Geometry, pts spline.Points, f spline.Family, time float64) ([]RigidPose, error) {
	if c.Cars <= 0 {
		return nil, nil
	}
	d := NewDriver(f)
	p, err := d.Pose(pts, time)
	if err != nil {
		return nil, err
	}
	poses := make([]RigidPose, 1, c.Cars)
	poses[0] = p
	head := g.DistanceAtParam(time)
	for i := 1; i < c.Cars; i++ {
		u := g.ParamAtDistance(head - float64(i)*c.Spacing)
		if p, err = d.Pose(pts, u); err != nil {
			return nil, err
		}
		poses = append(poses, p)
	}
	return poses, nil
}

// === Camera ================================================================

// CameraHeight is the height of the train camera above the head car's
// origin, which itself sits Clearance above the track. The camera looks at
// the head car's origin one frame ahead, so the line of sight drops by
// CameraHeight, as for a camera CameraHeight above the track looking at
// the track.
const CameraHeight = 3.0

// View is a camera riding on the train, looking down the track.
type View struct {
	Eye, Center, Up mgl64.Vec3
	Matrix          mgl64.Mat4 // view matrix
}

// Camera returns the view from the head car at path time. The camera
// looks at the point the train will reach one frame later, with the frame
// step derived from divisions as in SpeedFromDivisions.
func Camera(pts spline.Points, f spline.Family, time float64, divisions int) (View, error) {
	here, err := Pose(pts, f, time)
	if err != nil {
		return View{}, err
	}
	step := SpeedFromDivisions(pts.N(), divisions)
	ahead, err := Pose(pts, f, time+step)
	if err != nil {
		return View{}, err
	}
	v := View{
		Eye:    here.Position.Add(railspline.WorldUp.Mul(CameraHeight)),
		Center: ahead.Position,
		Up:     railspline.WorldUp,
	}
	if railspline.Is0(v.Center.Sub(v.Eye).Cross(v.Up).Len()) {
		v.Center = v.Eye.Add(here.Frame.Tangent) // looking straight down
	}
	v.Matrix = mgl64.LookAtV(v.Eye, v.Center, v.Up)
	return v, nil
}
