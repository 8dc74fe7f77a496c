package polygon

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/track"
)

// Footprint returns the band of the track in the ground plane, halfWidth
// to either side of the centerline. The band is made of two contours, the
// left and the right edge, and has the shape of a ring for a loop that
// does not cross itself.
//
// BUG(norbert@pillmayer.com): Edges are offset per centerline point. Where
// the track turns tighter than halfWidth, an edge folds over itself.
func Footprint(g *track.Geometry, halfWidth float64) polyclip.Polygon {
	c := g.Centerline
	if n := len(c); n > 1 && railspline.EqualV(c[0], c[n-1]) {
		c = c[:n-1]
	}
	n := len(c)
	if n < 3 || !(halfWidth > 0) {
		return polyclip.Polygon{}
	}
	left := make(polyclip.Contour, 0, n)
	right := make(polyclip.Contour, 0, n)
	for i := range c {
		r := sideways(c, i)
		left = append(left, Ground(c[i].Sub(r.Mul(halfWidth))))
		right = append(right, Ground(c[i].Add(r.Mul(halfWidth))))
	}
	L().Debugf("footprint of %d centerline points, half width %.2f", n, halfWidth)
	return polyclip.Polygon{left, right}
}

// sideways returns the horizontal unit vector to the right of the track
// at centerline point i.
func sideways(c []mgl64.Vec3, i int) mgl64.Vec3 {
	n := len(c)
	for k := 1; k < n/2; k++ {
		d := c[(i+k)%n].Sub(c[(i-k+n)%n])
		if h := math.Hypot(d[0], d[2]); h > railspline.Epsilon {
			return mgl64.Vec3{-d[2] / h, 0, d[0] / h}
		}
	}
	return mgl64.Vec3{0, 0, 1}
}

// Conflict is an obstacle overlapped by the track.
type Conflict struct {
	Index   int     // position in the list of obstacles
	Overlap float64 // area covered by the track
}

// Clearance checks which obstacles the track band overlaps.
func Clearance(g *track.Geometry, halfWidth float64, obstacles []*Polygon) []Conflict {
	band := Footprint(g, halfWidth)
	if len(band) == 0 {
		return nil
	}
	bbox := band.BoundingBox()
	var conflicts []Conflict
	for i, ob := range obstacles {
		if ob == nil || ob.N() < 3 {
			continue
		}
		clip := ob.Clip()
		if !overlaps(bbox, clip.BoundingBox()) {
			continue
		}
		a := Area(Intersection(band, clip))
		if a > railspline.Epsilon {
			L().Infof("track overlaps obstacle #%d by %.2f", i, a)
			conflicts = append(conflicts, Conflict{Index: i, Overlap: a})
		}
	}
	return conflicts
}

func overlaps(a, b polyclip.Rectangle) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
