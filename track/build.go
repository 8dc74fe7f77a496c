package track

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/frame"
	"github.com/npillmayer/railspline/spline"
	"github.com/samber/lo"
)

// maxDepth bounds adaptive subdivision of a single step.
const maxDepth = 6

// Line is a straight stroke of a rail.
type Line struct {
	From, To mgl64.Vec3
}

// Tie is the placement of one sleeper.
type Tie struct {
	Position  mgl64.Vec3
	YawDeg    float64
	PitchDeg  float64
	Frame     frame.Frame
	U         float64 // global curve parameter
	ArcLength float64 // distance from the start of the loop
	Gap       float64 // distance walked since the previous tie
}

// Transform returns the model transform of the tie.
func (t Tie) Transform() mgl64.Mat4 {
	return railspline.Placement(t.Position, t.YawDeg, t.PitchDeg)
}

// Geometry is the derived geometry of a track, built by walking the loop
// once. It has to be rebuilt whenever control points or configuration
// change (see Cache).
type Geometry struct {
	Config     Config
	Centerline []mgl64.Vec3 // closed: the last point equals the first
	Params     []float64    // global parameter of each centerline point, 0 … 1
	Rails      []Line
	Ties       []Tie
	Length     float64 // total arc length of the loop
	table      *arcTable
}

// TiePositions returns the positions of all ties.
func (g *Geometry) TiePositions() []mgl64.Vec3 {
	return lo.Map(g.Ties, func(t Tie, _ int) mgl64.Vec3 {
		return t.Position
	})
}

// Build walks the whole loop of control points and derives the track
// geometry for cfg.
func Build(pts spline.Points, cfg Config) (*Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &walker{
		cfg:  cfg,
		pts:  pts,
		ev:   spline.Evaluator{Family: cfg.Family},
		geom: &Geometry{Config: cfg},
	}
	first, err := w.ev.EvaluateSegment(pts, 0, 0)
	if err != nil {
		return nil, err
	}
	w.start(first)
	n := pts.N()
	for side := 0; side < n; side++ {
		for k := 1; k <= cfg.Divisions; k++ {
			t := float64(k) / float64(cfg.Divisions)
			if cfg.Adaptive {
				t0 := float64(k-1) / float64(cfg.Divisions)
				w.subdivide(side, t0, t, w.prev.Tangent, 0)
			}
			w.step(side, t)
		}
	}
	g := w.geom
	g.Length = w.total
	tracer().Infof("built %s track (%s, %d points): %d samples, %d ties, length %.2f",
		cfg.Family, cfg.Style, n, len(g.Centerline), len(g.Ties), g.Length)
	return g, nil
}

// MustBuild is a helper which panics on errors.
func MustBuild(pts spline.Points, cfg Config) *Geometry {
	g, err := Build(pts, cfg)
	if err != nil {
		panic(err)
	}
	return g
}

// walker holds the state of one pass along the loop.
type walker struct {
	cfg      Config
	pts      spline.Points
	ev       spline.Evaluator
	geom     *Geometry
	prev     spline.PathSample
	distance float64 // arc length since the last tie
	total    float64 // arc length since the start
	lastYaw  float64
}

func (w *walker) start(s spline.PathSample) {
	w.prev = s
	w.geom.table = newArcTable()
	w.record(s, 0)
}

func (w *walker) record(s spline.PathSample, u float64) {
	w.geom.Centerline = append(w.geom.Centerline, s.Position)
	w.geom.Params = append(w.geom.Params, u)
	w.geom.table.put(w.total, u)
}

// step advances the walk to local parameter t of segment side.
func (w *walker) step(side int, t float64) {
	s, err := w.ev.EvaluateSegment(w.pts, side, t)
	if err != nil { // control points were checked by the first evaluation
		panic(fmt.Sprintf("track walk: %v", err))
	}
	q0, q1 := w.prev.Position, s.Position
	d := railspline.Distance(q0, q1)
	w.total += d
	w.distance += d
	u := (float64(side) + t) / float64(w.pts.N())
	w.record(s, u)
	f := frame.New(s.Tangent, s.Orientation)
	w.rails(q0, q1, f)
	if w.distance > w.cfg.TieSpacing {
		w.tie(s, f, u)
		w.distance = 0
	}
	w.prev = s
}

// subdivide inserts intermediate steps between t0 and t1 while the tangent
// turns by more than the configured angle.
func (w *walker) subdivide(side int, t0, t1 float64, tan0 mgl64.Vec3, depth int) {
	if depth >= maxDepth {
		return
	}
	end, err := spline.EvaluateSegment(w.pts, w.cfg.Family, side, t1)
	if err != nil {
		return
	}
	turn := railspline.SafeAcos(tan0.Dot(end.Tangent)) * railspline.Rad2Deg
	if turn <= w.cfg.MaxAngleDeg {
		return
	}
	mid := (t0 + t1) / 2
	w.subdivide(side, t0, mid, tan0, depth+1)
	w.step(side, mid)
	w.subdivide(side, mid, t1, w.prev.Tangent, depth+1)
}

func (w *walker) rails(q0, q1 mgl64.Vec3, f frame.Frame) {
	c := w.cfg.Gauge
	g := w.geom
	switch w.cfg.Style {
	case Simple:
		g.Rails = append(g.Rails, Line{q0, q1})
	case Parallel:
		g.Rails = append(g.Rails,
			Line{f.Offset(q0, c, 0), f.Offset(q1, c, 0)},
			Line{f.Offset(q0, -c, 0), f.Offset(q1, -c, 0)})
	case Road:
		g.Rails = append(g.Rails, Line{f.Offset(q0, c, 0), f.Offset(q1, -c, 0)})
	}
}

func (w *walker) tie(s spline.PathSample, f frame.Frame, u float64) {
	yaw, ok := frame.YawOK(s.Tangent)
	if !ok {
		yaw = w.lastYaw
	}
	w.lastYaw = yaw
	t := Tie{
		Position:  s.Position,
		YawDeg:    yaw,
		PitchDeg:  frame.Pitch(s.Orientation),
		Frame:     f,
		U:         u,
		ArcLength: w.total,
		Gap:       w.distance,
	}
	tracer().Debugf("tie #%d at %s, yaw %.1f, pitch %.1f", len(w.geom.Ties),
		railspline.VString(t.Position), t.YawDeg, t.PitchDeg)
	w.geom.Ties = append(w.geom.Ties, t)
}
